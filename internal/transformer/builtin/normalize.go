package builtin

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"travel-etl/internal/etlerr"
	"travel-etl/internal/table"
)

// DefaultLocale is the locale picked when none is configured.
const DefaultLocale = "en"

// DefaultLocalizedColumns hold serialized {"<lang>": "<name>"} objects after
// the join and departure rename.
var DefaultLocalizedColumns = []string{
	"model",
	"airport_name_departure",
	"city_departure",
	"airport_name_arrival",
	"city_arrival",
}

// Localize replaces every cell of Columns, a JSON object keyed by language
// code, with the string stored under Locale. Keys match exactly and there is
// no fallback: a cell without the locale fails the whole transform. Values are
// returned as stored unless NFC is set.
type Localize struct {
	Columns []string
	Locale  string

	// NFC normalizes picked values to Unicode NFC.
	NFC bool
}

// NewLocalize checks that locale is a well-formed BCP 47 tag ("pt_BR" is
// accepted as "pt-BR") and returns the transform. The key looked up in the
// data is locale itself, trimmed, so it must match the stored key exactly.
func NewLocalize(columns []string, locale string) (Localize, error) {
	key, err := localeKey(locale)
	if err != nil {
		return Localize{}, err
	}
	if len(columns) == 0 {
		columns = DefaultLocalizedColumns
	}
	return Localize{Columns: append([]string(nil), columns...), Locale: key}, nil
}

func localeKey(locale string) (string, error) {
	key := strings.TrimSpace(locale)
	if key == "" {
		return DefaultLocale, nil
	}
	if _, err := language.Parse(strings.ReplaceAll(key, "_", "-")); err != nil {
		return "", fmt.Errorf("locale %q: %w", key, err)
	}
	return key, nil
}

func (Localize) Name() string { return "localize" }

func (l Localize) Apply(in *table.Table) (*table.Table, error) {
	locale, err := localeKey(l.Locale)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(l.Columns))
	for i, c := range l.Columns {
		if idx[i] = in.Index(c); idx[i] < 0 {
			return nil, &etlerr.ColumnNotFoundError{Stage: l.Name(), Column: c}
		}
	}

	out := in.Clone()
	for ci, col := range idx {
		name := l.Columns[ci]
		for r, row := range out.Rows {
			s, err := pickLocale(row[col], locale, l.NFC)
			if err != nil {
				if errors.Is(err, errLocaleMissing) {
					return nil, &etlerr.MissingLocaleError{Column: name, Row: r, Locale: locale}
				}
				return nil, &etlerr.ParseError{Column: name, Row: r, Err: err}
			}
			row[col] = s
		}
	}
	return out, nil
}

var errLocaleMissing = errors.New("locale missing")

// pickLocale extracts locale from a serialized object cell.
func pickLocale(cell any, locale string, nfc bool) (string, error) {
	var data []byte
	switch v := cell.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		return "", errors.New("cell is NULL")
	default:
		return "", fmt.Errorf("cell has type %T, want serialized object", cell)
	}

	if !json.Valid(data) {
		return "", errors.New("cell is not valid JSON")
	}
	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return "", err
	}
	if typ != jsonparser.Object {
		return "", fmt.Errorf("cell is a JSON %s, want object", typ)
	}

	var (
		found bool
		val   string
		verr  error
	)
	err = jsonparser.ObjectEach(data, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		if k != locale {
			return nil
		}
		// Later duplicates win, as with a regular JSON decode.
		found = true
		if dt != jsonparser.String {
			verr = fmt.Errorf("locale %q holds a JSON %s, want string", locale, dt)
			return nil
		}
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return err
		}
		val, verr = s, nil
		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", errLocaleMissing
	}
	if verr != nil {
		return "", verr
	}
	if nfc {
		val = norm.NFC.String(val)
	}
	return val, nil
}
