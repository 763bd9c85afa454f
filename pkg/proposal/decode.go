package proposal

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/go-playground/validator"
	"github.com/kaptinlin/jsonrepair"

	"github.com/matzehuels/archsketch/pkg/errors"
)

var validate = validator.New()

// Decode parses and validates a structured payload.
//
// Model output is often almost-JSON: wrapped in a markdown fence, encoded as
// a JSON string, or missing a closing brace. Decode tries plain parsing
// first, then unwraps string encoding, then falls back to repairing the
// input. Every failure is reported as [errors.ErrCodeInvalidPayload].
func Decode(input string) (Payload, error) {
	var p Payload
	if err := unmarshalFlexible(input, &p); err != nil {
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidPayload, err, "invalid design payload")
	}
	if err := Validate(p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// DecodeReader reads r fully and decodes it with [Decode].
func DecodeReader(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read payload")
	}
	return Decode(string(data))
}

// Validate checks the structural requirements of a payload. Missing names or
// types are tolerated; a missing components or connections array is not.
func Validate(p Payload) error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "invalid design payload")
	}
	return nil
}

func unmarshalFlexible(input string, out *Payload) error {
	input = stripFence(strings.TrimSpace(input))
	if input == "" {
		return errors.New(errors.ErrCodeInvalidPayload, "empty response")
	}

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return err
	}
	*out = Payload{}
	return json.Unmarshal([]byte(repaired), out)
}

// stripFence removes a surrounding ``` or ```json block.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
