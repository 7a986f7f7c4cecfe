package scanner

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
)

const (
	// DirectivePrefix starts every activity directive.
	DirectivePrefix = "//activity:"

	ignoreVerb = "ignore"
	sourceVerb = "source"
)

var forms = map[string]decl.Form{
	"start":    decl.FormGeneric,
	"internal": decl.FormInternal,
	"server":   decl.FormServer,
	"client":   decl.FormClient,
	"producer": decl.FormProducer,
	"consumer": decl.FormConsumer,
}

// IsDirective reports whether a comment line is an activity directive.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, DirectivePrefix)
}

// ParseDirective parses one comment line. It returns false for comments that
// are not annotations, including //activity:ignore.
//
//	//activity:server name="Fetch user" root create-source=false
//	//activity:start kind=client
//	//activity:start 3
//	//activity:source telemetry.Source
func ParseDirective(text string, at decl.Span) (decl.Annotation, bool, error) {
	if !IsDirective(text) {
		return nil, false, nil
	}

	verb, rest := splitVerb(strings.TrimPrefix(text, DirectivePrefix))
	switch verb {
	case ignoreVerb:
		return nil, false, nil
	case sourceVerb:
		path := strings.TrimSpace(rest)
		if unquoted, err := strconv.Unquote(path); err == nil {
			path = unquoted
		}
		return decl.SourceReference{Path: path, At: at}, true, nil
	}

	form, ok := forms[verb]
	if !ok {
		return nil, false, errors.Errorf("unknown directive %q", DirectivePrefix+verb)
	}

	args, err := tokenize(rest)
	if err != nil {
		return nil, false, errors.Wrapf(err, "malformed %s directive", verb)
	}

	a := decl.ActivityAnnotation{Form: form, At: at}
	for i, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")

		if !hasValue && i == 0 && form == decl.FormGeneric {
			a.Kind = decl.ParseKind(key)
			continue
		}

		switch key {
		case "name":
			if !hasValue {
				return nil, false, errors.New("name requires a value")
			}
			a.Name = &value
		case "root":
			b, err := parseFlag(key, value, hasValue)
			if err != nil {
				return nil, false, err
			}
			a.IsRoot = &b
		case "create", "create-source":
			b, err := parseFlag(key, value, hasValue)
			if err != nil {
				return nil, false, err
			}
			a.CreateSource = &b
		case "kind":
			if form != decl.FormGeneric {
				return nil, false, errors.Errorf("kind is only accepted by %sstart", DirectivePrefix)
			}
			a.Kind = decl.ParseKind(value)
		default:
			return nil, false, errors.Errorf("unknown argument %q", key)
		}
	}

	return a, true, nil
}

func parseFlag(key, value string, hasValue bool) (bool, error) {
	if !hasValue {
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(err, "invalid value for %s", key)
	}
	return b, nil
}

func splitVerb(s string) (verb, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// tokenize splits s on white space. Double-quoted and back-quoted sections
// are unquoted in place and may contain spaces.
func tokenize(s string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		inTok  bool
	)

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
			i++
		case c == '"' || c == '`':
			end := closingQuote(s, i)
			if end < 0 {
				return nil, errors.Errorf("unterminated quote at offset %d", i)
			}
			unquoted, err := strconv.Unquote(s[i : end+1])
			if err != nil {
				return nil, errors.Wrapf(err, "invalid quoted value %s", s[i:end+1])
			}
			cur.WriteString(unquoted)
			inTok = true
			i = end + 1
		default:
			cur.WriteByte(c)
			inTok = true
			i++
		}
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

func closingQuote(s string, start int) int {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		switch {
		case q == '"' && s[i] == '\\':
			i++
		case s[i] == q:
			return i
		}
	}
	return -1
}
