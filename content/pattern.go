package content

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// Kind identifies one of the content patterns a virtual file can have.
type Kind int

const (
	KindZero Kind = iota
	KindOne
	KindDigit
	KindRandom
)

func (k Kind) String() string {
	switch k {
	case KindZero:
		return "zero"
	case KindOne:
		return "one"
	case KindDigit:
		return "digit"
	case KindRandom:
		return "random"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AlphaNumeric is the alphabet of the "alpha_num" directory.
const AlphaNumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Pattern describes the bytes of a virtual file. The zero value is Zero().
// Patterns are comparable values; two equal patterns produce identical content.
type Pattern struct {
	kind     Kind
	digit    byte
	key      [chacha20.KeySize]byte
	alphabet string
}

// Zero fills every byte with the ASCII digit '0'.
func Zero() Pattern {
	return Pattern{kind: KindZero}
}

// One fills every byte with the ASCII digit '1'.
func One() Pattern {
	return Pattern{kind: KindOne}
}

// Digit fills every byte with the ASCII digit d ('0' to '9').
func Digit(d byte) (Pattern, error) {
	if d < '0' || d > '9' {
		return Pattern{}, fmt.Errorf("content: '%c' is not an ASCII digit", d)
	}
	return Pattern{kind: KindDigit, digit: d}, nil
}

// MustDigit is like Digit but panics on an invalid digit.
func MustDigit(d byte) Pattern {
	p, err := Digit(d)
	if err != nil {
		panic(err)
	}
	return p
}

// Random produces a keystream derived from seed. The byte at any offset
// only depends on the seed and that offset.
func Random(seed []byte) Pattern {
	return Pattern{kind: KindRandom, key: blake2b.Sum256(seed)}
}

// RandomAlphabet is like Random, but maps every keystream byte b to
// alphabet[b % len(alphabet)].
func RandomAlphabet(seed []byte, alphabet string) (Pattern, error) {
	if alphabet == "" {
		return Pattern{}, fmt.Errorf("content: alphabet cannot be empty")
	}
	if len(alphabet) > 256 {
		return Pattern{}, fmt.Errorf("content: alphabet has %d symbols, at most 256 are allowed", len(alphabet))
	}

	p := Random(seed)
	p.alphabet = alphabet
	return p, nil
}

func (p Pattern) Kind() Kind {
	return p.kind
}

// Byte returns the fill byte of a constant pattern, or 0 for Random.
func (p Pattern) Byte() byte {
	switch p.kind {
	case KindZero:
		return '0'
	case KindOne:
		return '1'
	case KindDigit:
		return p.digit
	default:
		return 0
	}
}

// Alphabet returns the output alphabet of a Random pattern. It is empty when
// the full byte range is used.
func (p Pattern) Alphabet() string {
	return p.alphabet
}

// Constant reports whether every byte of the pattern is the same.
func (p Pattern) Constant() bool {
	return p.kind != KindRandom
}

func (p Pattern) String() string {
	switch p.kind {
	case KindZero:
		return "zeros"
	case KindOne:
		return "ones"
	case KindDigit:
		return string(p.digit)
	case KindRandom:
		if p.alphabet != "" {
			return "random[" + p.alphabet + "]"
		}
		return "random"
	default:
		return p.kind.String()
	}
}

// ParsePattern parses a pattern expression:
//
//	zeros | ones | random | <digit> | '[' range {',' range} ']'
//
// where a range is either a single character or "a-z". Character classes
// become Random patterns over the listed alphabet.
func ParsePattern(expr string, seed []byte) (Pattern, error) {
	switch strings.ToLower(expr) {
	case "zeros", "zero":
		return Zero(), nil
	case "ones", "one":
		return One(), nil
	case "random":
		return Random(seed), nil
	}

	if len(expr) == 1 && expr[0] >= '0' && expr[0] <= '9' {
		return Digit(expr[0])
	}

	if strings.HasPrefix(expr, "[") {
		alphabet, err := ParseAlphabet(expr)
		if err != nil {
			return Pattern{}, err
		}
		return RandomAlphabet(seed, alphabet)
	}

	return Pattern{}, fmt.Errorf("content: unknown pattern '%s'", expr)
}

// ParseAlphabet expands a character class such as "[a-z,A-Z,0-9]" into the
// ordered set of its characters. Duplicates are kept only once.
func ParseAlphabet(class string) (string, error) {
	if len(class) < 2 || class[0] != '[' || class[len(class)-1] != ']' {
		return "", fmt.Errorf("content: character class '%s' must be enclosed in brackets", class)
	}

	var (
		seen [256]bool
		sb   strings.Builder
	)
	add := func(c byte) {
		if !seen[c] {
			seen[c] = true
			sb.WriteByte(c)
		}
	}

	body := class[1 : len(class)-1]
	for _, item := range strings.Split(body, ",") {
		switch {
		case item == "":
			continue
		case len(item) == 1:
			add(item[0])
		case len(item) == 3 && item[1] == '-':
			lo, hi := item[0], item[2]
			if lo > hi {
				return "", fmt.Errorf("content: invalid range '%s' in '%s'", item, class)
			}
			for c := int(lo); c <= int(hi); c++ {
				add(byte(c))
			}
		default:
			return "", fmt.Errorf("content: invalid range '%s' in '%s'", item, class)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("content: character class '%s' is empty", class)
	}
	return sb.String(), nil
}

// Fingerprint identifies the content of the pattern. Unlike String it differs
// between random patterns with different seeds.
func (p Pattern) Fingerprint() string {
	if p.kind != KindRandom {
		return p.String()
	}

	sum := blake2b.Sum256(append(p.key[:], p.alphabet...))
	return hex.EncodeToString(sum[:8])
}
