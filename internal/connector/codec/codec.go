// Package codec turns authorisation states into opaque tokens and back.
//
// A token is the JSON form of a state with an "objectType" discriminator,
// base64url encoded when it travels as text. Decoding tolerates one level
// of wrapping: a document whose only field holds an object is unwrapped
// first, which is how some callers nest the state.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
)

const discriminator = "objectType"

// Encode serialises a state including its discriminator.
func Encode(s domain.State) ([]byte, error) {
	var v any
	switch st := s.(type) {
	case *domain.ConsentState:
		v = struct {
			ObjectType domain.ObjectType `json:"objectType"`
			*domain.ConsentState
		}{st.Kind(), st}
	case *domain.PaymentState:
		v = struct {
			ObjectType domain.ObjectType `json:"objectType"`
			*domain.PaymentState
		}{st.Kind(), st}
	case *domain.LoginState:
		v = struct {
			ObjectType domain.ObjectType `json:"objectType"`
			*domain.LoginState
		}{st.Kind(), st}
	default:
		return nil, domain.Errorf(domain.ErrUnknownStateVariant, "cannot encode %T", s)
	}

	out, err := json.Marshal(v)
	if err != nil {
		return nil, &domain.Error{Kind: domain.ErrInvalidToken, Message: "encode state", Cause: err}
	}
	return out, nil
}

// Decode parses a token and dispatches on its discriminator.
func Decode(data []byte) (domain.State, error) {
	doc, fields, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	raw, ok := fields[discriminator]
	if !ok {
		return nil, domain.Errorf(domain.ErrUnknownStateVariant, "missing %s", discriminator)
	}
	var kind domain.ObjectType
	if err := json.Unmarshal(raw, &kind); err != nil {
		return nil, domain.Errorf(domain.ErrUnknownStateVariant, "%s is not a string", discriminator)
	}

	s, ok := domain.NewState(kind)
	if !ok {
		return nil, domain.Errorf(domain.ErrUnknownStateVariant, "unknown %s %q", discriminator, kind)
	}
	if err := fill(doc, s); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeAs skips discriminator dispatch and forces the variant T. Use it only
// where the caller already knows the kind of the authorisation.
func DecodeAs[T any, PT interface {
	*T
	domain.State
}](data []byte) (PT, error) {
	doc, _, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	s := PT(new(T))
	if err := fill(doc, s); err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeString encodes a state as base64url text.
func EncodeString(s domain.State) (string, error) {
	b, err := Encode(s)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeString reverses EncodeString. Padded input is accepted too.
func DecodeString(token string) (domain.State, error) {
	b, err := FromText(token)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// FromText base64url-decodes a textual token without parsing it.
func FromText(token string) ([]byte, error) {
	token = strings.TrimRight(strings.TrimSpace(token), "=")
	if token == "" {
		return nil, domain.Errorf(domain.ErrInvalidToken, "empty token")
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, &domain.Error{Kind: domain.ErrInvalidToken, Message: "token is not base64url", Cause: err}
	}
	return b, nil
}

// unwrap validates the document and peels a single envelope level.
func unwrap(data []byte) ([]byte, map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, domain.Errorf(domain.ErrInvalidToken, "empty token")
	}

	fields, err := object(data)
	if err != nil {
		return nil, nil, err
	}

	if len(fields) == 1 {
		for k, v := range fields {
			if k == discriminator || !isObject(v) {
				break
			}
			inner, err := object(v)
			if err != nil {
				return nil, nil, err
			}
			return v, inner, nil
		}
	}
	return data, fields, nil
}

func object(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &domain.Error{Kind: domain.ErrInvalidToken, Message: "token is not a JSON object", Cause: err}
	}
	if fields == nil {
		return nil, domain.Errorf(domain.ErrInvalidToken, "token is null")
	}
	return fields, nil
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func fill(doc []byte, s domain.State) error {
	if err := json.Unmarshal(doc, s); err != nil {
		return &domain.Error{Kind: domain.ErrInvalidToken, Message: fmt.Sprintf("malformed %s", s.Kind()), Cause: err}
	}
	if st := s.Auth().ScaStatus; !st.Valid() {
		return domain.Errorf(domain.ErrInvalidToken, "unknown scaStatus %q", st)
	}
	return nil
}
