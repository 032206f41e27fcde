package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/weight"
)

// Separator joins node names into identifiers.
const Separator = apperrors.NodeSeparator

type jsonNode struct {
	Name     string      `json:"name"`
	Weight   json.Number `json:"weight,omitempty"`
	Children []jsonNode  `json:"children,omitempty"`
}

// ReadJSON decodes a nested JSON tree from r:
//
//	{
//	  "name": "root",
//	  "children": [
//	    {"name": "a", "weight": 6},
//	    {"name": "b", "weight": 4, "children": [{"name": "c", "weight": 4}]}
//	  ]
//	}
//
// Node identifiers are the slash-joined names from the root ("root/b/c").
// A node without an explicit weight weighs the sum of its children; an
// explicit weight is taken as is, even when it is smaller than that sum.
// Weights are parsed with parse and combined with arith.
//
// ReadJSON returns an error for malformed JSON, unparsable weights and
// duplicate sibling names. Names rejected by errors.ValidateNodeName, such as
// empty names or names containing Separator, give an INVALID_INPUT error.
func ReadJSON[T any](r io.Reader, arith weight.Arithmetic[T], parse func(json.Number) (T, error)) (*Model[string, T], error) {
	var root jsonNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := apperrors.ValidateNodeName(root.Name); err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}

	m := NewModel[string](arith)
	if err := m.SetRoot(root.Name, arith.Zero()); err != nil {
		return nil, err
	}
	if err := readChildren(m, &root, root.Name, parse); err != nil {
		return nil, err
	}
	return m, nil
}

// readChildren inserts the children of n below id and then fixes the weight
// of id, which is only known once the whole subtree has been read.
func readChildren[T any](m *Model[string, T], n *jsonNode, id string, parse func(json.Number) (T, error)) error {
	sum := m.arith.Zero()
	for i := range n.Children {
		c := &n.Children[i]
		if err := apperrors.ValidateNodeName(c.Name); err != nil {
			return fmt.Errorf("child %d of %s: %w", i, id, err)
		}
		cid := id + Separator + c.Name
		if err := m.Insert(cid, m.arith.Zero(), id, false); err != nil {
			return fmt.Errorf("node %s: %w", cid, err)
		}
		if err := readChildren(m, c, cid, parse); err != nil {
			return err
		}
		sum = m.arith.Add(sum, m.weights[cid])
	}

	if n.Weight == "" {
		m.weights[id] = sum
		return nil
	}
	w, err := parse(n.Weight)
	if err != nil {
		return fmt.Errorf("node %s: %w", id, err)
	}
	m.weights[id] = w
	return nil
}

// ReadInt64JSON reads a tree with integer weights.
func ReadInt64JSON(r io.Reader) (*Model[string, int64], error) {
	return ReadJSON[int64](r, weight.Int64(), weight.ParseInt64)
}

// ReadDecimalJSON reads a tree with arbitrary-precision decimal weights.
func ReadDecimalJSON(r io.Reader) (*Model[string, decimal.Decimal], error) {
	return ReadJSON[decimal.Decimal](r, weight.Decimal{}, weight.ParseDecimal)
}

// ImportJSON reads an integer-weighted tree from the file at path.
func ImportJSON(path string) (*Model[string, int64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInt64JSON(f)
}

// WriteJSON encodes t in the nested format understood by [ReadJSON].
// Every node is written with its weight, formatted by format.
func WriteJSON[T any](w io.Writer, t Weighted[string, T], format func(T) string) error {
	out := toJSON(t, t.Root(), format)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func toJSON[T any](t Weighted[string, T], id string, format func(T) string) jsonNode {
	n := jsonNode{Name: Name(id), Weight: json.Number(format(t.Weight(id)))}
	for c := range t.Children(id) {
		n.Children = append(n.Children, toJSON(t, c, format))
	}
	return n
}

// MarshalInt64 encodes an integer-weighted tree.
func MarshalInt64(t Weighted[string, int64]) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, t, FormatInt64); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatInt64 formats an integer weight for [WriteJSON].
func FormatInt64(v int64) string { return strconv.FormatInt(v, 10) }

// FormatDecimal formats a decimal weight for [WriteJSON].
func FormatDecimal(v decimal.Decimal) string { return v.String() }

// Name returns the last segment of a node identifier.
func Name(id string) string {
	if i := strings.LastIndex(id, Separator); i >= 0 {
		return id[i+1:]
	}
	return id
}
