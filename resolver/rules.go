package resolver

import (
	"fmt"
	"strings"

	"github.com/mwantia/sizefs/content"
)

const (
	DirZeros    = "zeros"
	DirOnes     = "ones"
	DirRandom   = "random"
	DirAlphaNum = "alpha_num"
)

// Rule maps a directory name to the pattern of the files below it.
type Rule struct {
	Name    string
	Pattern content.Pattern
}

// DefaultRules returns the built-in directory vocabulary in lookup order:
// zeros, ones, random, alpha_num and the digit directories "0" to "9".
func DefaultRules(seed []byte) []Rule {
	alphaNum, err := content.RandomAlphabet(seed, content.AlphaNumeric)
	if err != nil {
		panic(err)
	}

	rules := []Rule{
		{Name: DirZeros, Pattern: content.Zero()},
		{Name: DirOnes, Pattern: content.One()},
		{Name: DirRandom, Pattern: content.Random(seed)},
		{Name: DirAlphaNum, Pattern: alphaNum},
	}
	for d := byte('0'); d <= '9'; d++ {
		rules = append(rules, Rule{Name: string(d), Pattern: content.MustDigit(d)})
	}

	return rules
}

func validateRuleName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: '%s' is not a valid directory name", ErrInvalidRule, name)
	case strings.ContainsRune(name, '/'):
		return fmt.Errorf("%w: directory name '%s' cannot contain '/'", ErrInvalidRule, name)
	}
	return nil
}
