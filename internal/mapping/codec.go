package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/sax"
)

// ErrorKind classifies a parse failure. Kinds are errors themselves, so
// errors.Is(err, mapping.InvalidNoteName) matches any *ParseError of that kind.
type ErrorKind int

const (
	MalformedJSON ErrorKind = iota + 1
	NotAnArray
	MissingKey
	UnknownType
	InvalidFieldForType
	InvalidNoteName
	InvalidFingeringKey
)

var kindNames = map[ErrorKind]string{
	MalformedJSON:       "malformed JSON",
	NotAnArray:          "not an array",
	MissingKey:          "missing key",
	UnknownType:         "unknown type",
	InvalidFieldForType: "invalid field for type",
	InvalidNoteName:     "invalid note name",
	InvalidFingeringKey: "invalid fingering key",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

func (k ErrorKind) Error() string { return k.String() }

// ParseError reports why a document was rejected. Index is the offending
// array element, or -1 for document-level failures.
type ParseError struct {
	Kind   ErrorKind
	Index  int
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("mapping: ")
	if e.Index >= 0 {
		fmt.Fprintf(&b, "entry %d: ", e.Index)
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ParseError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func (e *ParseError) Unwrap() error { return e.Err }

func entryError(kind ErrorKind, i int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Index: i, Detail: fmt.Sprintf(format, args...)}
}

// Parse reads a mapping document: a JSON array of objects like
//
//	{ "k": 36, "type": "note", "n": "C", "o": 4, "r": 0, "p": 37 }
//
// The whole document is validated before a table is built, so a failed
// parse never yields a partial table. Absent r or p default to DefaultColor.
// A later element with the same k replaces an earlier one.
func Parse(text string) (Table, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Table{}, &ParseError{Kind: MalformedJSON, Index: -1, Detail: err.Error(), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Table{}, &ParseError{Kind: MalformedJSON, Index: -1, Detail: "trailing data after document"}
	}

	items, ok := doc.([]any)
	if !ok {
		return Table{}, &ParseError{Kind: NotAnArray, Index: -1, Detail: fmt.Sprintf("top level is %s", jsonKind(doc))}
	}

	entries := make(map[Key]Entry, len(items))
	for i, item := range items {
		k, e, err := parseEntry(i, item)
		if err != nil {
			return Table{}, err
		}
		entries[k] = e
	}
	return Table{entries: entries}, nil
}

func parseEntry(i int, item any) (Key, Entry, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return 0, Entry{}, entryError(MissingKey, i, "element is %s, not an object", jsonKind(item))
	}

	k, ok := intField(obj, "k")
	if !ok {
		return 0, Entry{}, entryError(MissingKey, i, `"k" must be an integer`)
	}

	typ, _ := obj["type"].(string)
	m, err := parseMapping(i, Kind(typ), obj)
	if err != nil {
		return 0, Entry{}, err
	}

	color := ColorPair{Rest: DefaultColor, Pressed: DefaultColor}
	for _, f := range []struct {
		name string
		dst  *Color
	}{{"r", &color.Rest}, {"p", &color.Pressed}} {
		if _, present := obj[f.name]; !present {
			continue
		}
		c, ok := intField(obj, f.name)
		if !ok || c < 0 || c > int(MaxColor) {
			return 0, Entry{}, entryError(InvalidFieldForType, i, "%q must be a color code 0..127", f.name)
		}
		*f.dst = Color(c)
	}

	return Key(k), Entry{Mapping: m, Color: color}, nil
}

func parseMapping(i int, typ Kind, obj map[string]any) (Mapping, error) {
	switch typ {
	case KindNote:
		n, okN := obj["n"].(string)
		o, okO := intField(obj, "o")
		if !okN || !okO {
			return nil, entryError(InvalidFieldForType, i, `note needs string "n" and integer "o"`)
		}
		name, ok := notes.ParseName(n)
		if !ok {
			return nil, entryError(InvalidNoteName, i, "%q", n)
		}
		return NoteAction{Target: notes.Repr{Name: name, Octave: o}.Note()}, nil
	case KindPitch:
		b, ok := intField(obj, "b")
		if !ok {
			return nil, entryError(InvalidFieldForType, i, `pitch needs integer "b"`)
		}
		return PitchBend{Bend: b}, nil
	case KindTimbre:
		w, ok := obj["w"].(string)
		if !ok {
			return nil, entryError(InvalidFieldForType, i, `timbre needs string "w"`)
		}
		wf, ok := ParseWaveform(w)
		if !ok {
			return nil, entryError(InvalidFieldForType, i, "unknown waveform %q", w)
		}
		return Timbre{Waveform: wf}, nil
	case KindSax:
		s, ok := obj["s"].(string)
		if !ok {
			return nil, entryError(InvalidFieldForType, i, `sax needs string "s"`)
		}
		key, ok := sax.Parse(s)
		if !ok {
			return nil, entryError(InvalidFingeringKey, i, "%q", s)
		}
		return Fingering{Key: key}, nil
	}
	if raw, present := obj["type"]; present {
		return nil, entryError(UnknownType, i, "%v", raw)
	}
	return nil, entryError(UnknownType, i, `missing "type"`)
}

// intField reads obj[name] as an integral JSON number
func intField(obj map[string]any, name string) (int, bool) {
	num, ok := obj[name].(json.Number)
	if !ok {
		return 0, false
	}
	if v, err := strconv.Atoi(num.String()); err == nil {
		return v, true
	}
	// 36.0 and 1e2 are integral too
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	}
	return fmt.Sprintf("%T", v)
}

// Format renders t as a mapping document, one entry per line in ascending
// key order. The "type" and "n" values are padded to a common width so
// columns line up; the padding is whitespace only.
func Format(t Table) string {
	if t.Len() == 0 {
		return "[]"
	}

	typeWidth, nameWidth := 0, 0
	t.Each(func(_ Key, e Entry) {
		typeWidth = max(typeWidth, utf8.RuneCountInString(quote(string(e.Mapping.Kind()))))
		if m, ok := e.Mapping.(NoteAction); ok {
			nameWidth = max(nameWidth, utf8.RuneCountInString(quote(string(notes.ToRepr(m.Target).Name))))
		}
	})

	var b bytes.Buffer
	b.WriteString("[\n")
	keys := t.Keys()
	for i, k := range keys {
		e := t.entries[k]
		fmt.Fprintf(&b, `  { "k": %d, "type": %s `, k, padComma(quote(string(e.Mapping.Kind())), typeWidth))
		switch m := e.Mapping.(type) {
		case NoteAction:
			r := notes.ToRepr(m.Target)
			fmt.Fprintf(&b, `"n": %s "o": %d, `, padComma(quote(string(r.Name)), nameWidth), r.Octave)
		case PitchBend:
			fmt.Fprintf(&b, `"b": %d, `, m.Bend)
		case Timbre:
			fmt.Fprintf(&b, `"w": %s, `, quote(string(m.Waveform)))
		case Fingering:
			fmt.Fprintf(&b, `"s": %s, `, quote(string(m.Key)))
		}
		fmt.Fprintf(&b, `"r": %d, "p": %d }`, e.Color.Rest, e.Color.Pressed)
		if i < len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("]")
	return b.String()
}

// padComma appends the separating comma, then pads to width+1 runes
func padComma(s string, width int) string {
	return s + "," + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}

func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
