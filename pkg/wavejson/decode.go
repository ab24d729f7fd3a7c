package wavejson

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/matzehuels/wavetower/pkg/errors"
)

// rawDocument mirrors the JSON surface before normalization.
type rawDocument struct {
	Signal []json.RawMessage `json:"signal"`
	Edge   []string          `json:"edge"`
	Config *rawConfig        `json:"config"`
	Head   *rawCaption       `json:"head"`
	Foot   *rawCaption       `json:"foot"`
}

type rawConfig struct {
	HScale *float64 `json:"hscale"`
}

type rawCaption struct {
	Text string `json:"text"`
}

type rawSignal struct {
	Name   string   `json:"name"`
	Wave   string   `json:"wave"`
	Data   dataList `json:"data"`
	Period *float64 `json:"period"`
	Phase  float64  `json:"phase"`
	Node   string   `json:"node"`
}

// dataList accepts both a JSON array of strings and a single
// whitespace-separated string, normalizing to a slice.
type dataList []string

func (d *dataList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = strings.Fields(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*d = list
	return nil
}

// Decode parses a WaveJSON document into its normalized form. Structural
// failures return an INVALID_DOCUMENT error; semantic checks (wave alphabet,
// data counts, node letters) are the compiler's job.
func Decode(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding document")
	}

	doc := &Document{
		Edges: raw.Edge,
	}

	if raw.Config != nil && raw.Config.HScale != nil {
		doc.Config.HScale = *raw.Config.HScale
		doc.Config.HScaleSet = true
	}
	if raw.Head != nil {
		doc.Head.Text = raw.Head.Text
	}
	if raw.Foot != nil {
		doc.Foot.Text = raw.Foot.Text
	}

	for _, msg := range raw.Signal {
		entry, err := decodeEntry(msg)
		if err != nil {
			return nil, err
		}
		doc.Signals = append(doc.Signals, entry)
	}

	return doc, nil
}

// decodeEntry dispatches on the JSON shape of one signal array member:
// objects are signals or spacers, arrays are groups.
func decodeEntry(raw json.RawMessage) (Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Entry{}, errors.New(errors.ErrCodeInvalidDocument, "empty signal entry")
	}

	switch trimmed[0] {
	case '{':
		return decodeObject(trimmed)
	case '[':
		return decodeGroup(trimmed)
	default:
		return Entry{}, errors.New(errors.ErrCodeInvalidDocument,
			"signal entry must be an object or a group array, got %s", preview(trimmed))
	}
}

func decodeObject(raw []byte) (Entry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding signal entry")
	}

	// An empty object is a spacer row.
	if len(fields) == 0 {
		return Entry{Kind: EntrySpacer}, nil
	}

	var rs rawSignal
	if err := json.Unmarshal(raw, &rs); err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding signal entry")
	}

	sig := &Signal{
		Name:   rs.Name,
		Wave:   rs.Wave,
		Data:   rs.Data,
		Period: 1,
		Phase:  rs.Phase,
		Node:   rs.Node,
	}
	if rs.Period != nil {
		sig.Period = *rs.Period
	}

	return Entry{Kind: EntrySignal, Signal: sig}, nil
}

func decodeGroup(raw []byte) (Entry, error) {
	var members []json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding group")
	}

	group := &Group{}

	// An optional leading string labels the group; everything after it is
	// a child entry.
	start := 0
	if len(members) > 0 {
		first := bytes.TrimSpace(members[0])
		if len(first) > 0 && first[0] == '"' {
			if err := json.Unmarshal(first, &group.Label); err != nil {
				return Entry{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding group label")
			}
			start = 1
		}
	}

	for _, msg := range members[start:] {
		child, err := decodeEntry(msg)
		if err != nil {
			return Entry{}, err
		}
		group.Children = append(group.Children, child)
	}

	return Entry{Kind: EntryGroup, Group: group}, nil
}

// preview truncates a JSON fragment for inclusion in error messages.
func preview(raw []byte) string {
	const max = 40
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
