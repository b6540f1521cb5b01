package depot

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// JSONSerializer returns a serialize hook writing the component as one JSON
// value followed by a newline.
func JSONSerializer[T any]() SerializeHandler[T] {
	return func(c *T, w io.Writer) error {
		if err := json.NewEncoder(w).Encode(c); err != nil {
			return eris.Wrap(err, "")
		}
		return nil
	}
}

// JSONDeserializer returns a deserialize hook decoding one JSON value into the
// component. The decoder may read ahead of that value, so give each call its
// own reader when several components share a stream.
func JSONDeserializer[T any]() DeserializeHandler[T] {
	return func(c *T, r io.Reader) error {
		if err := json.NewDecoder(r).Decode(c); err != nil {
			return eris.Wrap(err, "")
		}
		return nil
	}
}

// UseJSON installs the JSON hooks on pool.
func UseJSON[T any](pool *Pool[T]) {
	pool.SetSerializeHandler(JSONSerializer[T]())
	pool.SetDeserializeHandler(JSONDeserializer[T]())
}

// MarshalComponent encodes a component value outside of any pool.
func MarshalComponent(v any) ([]byte, error) {
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}
