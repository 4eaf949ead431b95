package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// Cursor is an opaque keyset position: the order value and _id of the last
// document of a page.
type Cursor string

// EncodeCursor builds a cursor from the order value and id of a document.
func EncodeCursor(value any, id string) (Cursor, error) {
	raw, err := bson.Marshal(bson.D{{Key: "v", Value: value}, {Key: "id", Value: id}})
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return Cursor(base64.RawURLEncoding.EncodeToString(raw)), nil
}

// DecodeCursor returns the order value and id stored in c.
func DecodeCursor(c Cursor) (any, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return nil, "", ErrInvalidCursor
	}
	var payload bson.M
	if err := bson.Unmarshal(raw, &payload); err != nil {
		return nil, "", ErrInvalidCursor
	}
	id, ok := payload["id"].(string)
	if !ok {
		return nil, "", ErrInvalidCursor
	}
	return payload["v"], id, nil
}

// ToDocument converts doc into a bson.M keyed by id.
func ToDocument(id string, doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	m["_id"] = id
	return m, nil
}

// Normalize converts v into the value the bson decoder would produce for it,
// e.g. time.Time becomes primitive.DateTime and []string becomes primitive.A.
func Normalize(v any) (any, error) {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m["v"], nil
}

// DecodeAll decodes docs into out, which must be a pointer to a slice.
// The slice is replaced, and is empty rather than nil when docs is empty.
func DecodeAll(docs []bson.Raw, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return errors.New("decode: out must be a pointer to a slice")
	}
	slice := rv.Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(doc, elem.Interface()); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Set(result)
	return nil
}
