package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inamate/vecscene/internal/document"
)

// Codec encodes a Scene into a persisted form and decodes it back.
// Decode(Encode(s)) is structurally equal to s for every legal scene.
type Codec interface {
	Name() string
	Extension() string
	ContentType() string
	Encode(w io.Writer, s document.Scene) error
	Decode(r io.Reader) (document.Scene, error)
}

var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

var ErrUnknownFormat = errors.New("unknown snapshot format")

// CodecFor picks a codec by format name ("json", "yaml") or by the extension
// of a file name.
func CodecFor(name string) (Codec, error) {
	key := strings.ToLower(name)
	if ext := filepath.Ext(key); ext != "" {
		key = ext[1:]
	}
	switch key {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Marshal encodes s as compact JSON.
func Marshal(s document.Scene) ([]byte, error) {
	tree, err := sceneTree(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// Unmarshal decodes a JSON snapshot.
func Unmarshal(data []byte) (document.Scene, error) {
	v, err := parseJSON(data)
	if err != nil {
		return document.Scene{}, err
	}
	return decodeScene(v)
}

type jsonCodec struct{}

func (jsonCodec) Name() string        { return "json" }
func (jsonCodec) Extension() string   { return ".json" }
func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Encode(w io.Writer, s document.Scene) error {
	tree, err := sceneTree(s)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return &document.SinkError{Op: "write snapshot", Err: err}
	}
	return nil
}

func (jsonCodec) Decode(r io.Reader) (document.Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return document.Scene{}, &document.SinkError{Op: "read snapshot", Err: err}
	}
	return Unmarshal(data)
}

type yamlCodec struct{}

func (yamlCodec) Name() string        { return "yaml" }
func (yamlCodec) Extension() string   { return ".yaml" }
func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Encode(w io.Writer, s document.Scene) error {
	tree, err := sceneTree(s)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &document.SinkError{Op: "write snapshot", Err: err}
	}
	return nil
}

func (yamlCodec) Decode(r io.Reader) (document.Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return document.Scene{}, &document.SinkError{Op: "read snapshot", Err: err}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return document.Scene{}, failf("$", "empty document")
		}
		return document.Scene{}, failf("$", "%v", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return document.Scene{}, failf("$", "unexpected data after snapshot")
	}
	return decodeScene(v)
}

func parseJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, failf("$", "empty document")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec, "$")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, failf("$", "unexpected data after snapshot")
	}
	return v, nil
}

// readJSON builds the generic tree one token at a time. A repeated key is an
// error rather than a silent overwrite.
func readJSON(dec *json.Decoder, path string) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxErr(err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := object{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, syntaxErr(err)
			}
			key, ok := tok.(string)
			if !ok {
				return nil, failf(path, "expected object key")
			}
			if _, dup := obj[key]; dup {
				return nil, failf(path, "duplicate field %q", key)
			}
			val, err := readJSON(dec, path+"."+key)
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, syntaxErr(err)
		}
		return obj, nil
	case '[':
		items := []any{}
		for dec.More() {
			val, err := readJSON(dec, path+"["+strconv.Itoa(len(items))+"]")
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, syntaxErr(err)
		}
		return items, nil
	}
	return nil, failf(path, "unexpected %v", delim)
}

func syntaxErr(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return failf("$", "%v", err)
}

// MarshalShape encodes a single shape in the snapshot wire format.
func MarshalShape(shape document.Shape) ([]byte, error) {
	tree, err := shapeTree(shape, "$")
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// MarshalPathCommand encodes a single path command.
func MarshalPathCommand(c document.PathCommand) ([]byte, error) {
	tree, err := commandTree(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// MarshalPoint encodes a single point.
func MarshalPoint(p document.Point) ([]byte, error) {
	return json.Marshal(pointTree(p))
}

// MarshalStyles encodes a styles record.
func MarshalStyles(st document.Styles) ([]byte, error) {
	return json.Marshal(stylesTree(st))
}

// MarshalViewport encodes a viewport.
func MarshalViewport(vp document.Viewport) ([]byte, error) {
	return json.Marshal(object{"from": pointTree(vp.From), "to": pointTree(vp.To)})
}

// DecodeShape decodes a single shape fragment with the same strictness as a
// whole snapshot.
func DecodeShape(data []byte) (document.Shape, error) {
	v, err := parseJSON(data)
	if err != nil {
		return document.Shape{}, err
	}
	return decodeShape(v, "$")
}

func DecodePathCommand(data []byte) (document.PathCommand, error) {
	v, err := parseJSON(data)
	if err != nil {
		return nil, err
	}
	return decodeCommand(v, "$")
}

func DecodePoint(data []byte) (document.Point, error) {
	v, err := parseJSON(data)
	if err != nil {
		return document.Point{}, err
	}
	return decodePoint(v, "$")
}

func DecodeStyles(data []byte) (document.Styles, error) {
	v, err := parseJSON(data)
	if err != nil {
		return document.Styles{}, err
	}
	return decodeStyles(v, "$")
}

func DecodeViewport(data []byte) (document.Viewport, error) {
	v, err := parseJSON(data)
	if err != nil {
		return document.Viewport{}, err
	}
	obj, err := fields(v, "$", "from", "to")
	if err != nil {
		return document.Viewport{}, err
	}
	from, err := decodePoint(obj["from"], "$.from")
	if err != nil {
		return document.Viewport{}, err
	}
	to, err := decodePoint(obj["to"], "$.to")
	if err != nil {
		return document.Viewport{}, err
	}
	return document.Viewport{From: from, To: to}, nil
}
