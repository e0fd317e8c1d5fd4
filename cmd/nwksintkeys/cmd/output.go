package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/brocaar/lorawan/backend"

	"github.com/lorawan-tools/nwksintkeys/internal/block"
	"github.com/lorawan-tools/nwksintkeys/internal/hexcodec"
	"github.com/lorawan-tools/nwksintkeys/internal/keywrap"
	"github.com/lorawan-tools/nwksintkeys/internal/sessionkeys"
)

// keyOutput holds the printed result of a derivation.
type keyOutput struct {
	Line                   int                  `json:"line,omitempty"`
	FNwkSIntKey            *backend.KeyEnvelope `json:"fNwkSIntKey,omitempty"`
	SNwkSIntKey            *backend.KeyEnvelope `json:"sNwkSIntKey,omitempty"`
	FNwkSIntKeyDataPayload *block.Block         `json:"fNwkSIntKeyDataPayload,omitempty"`
	SNwkSIntKeyDataPayload *block.Block         `json:"sNwkSIntKeyDataPayload,omitempty"`
	Error                  string               `json:"error,omitempty"`
}

func newKeyOutput(keys sessionkeys.SessionKeys, kekLabel string, kek []byte) (keyOutput, error) {
	var out keyOutput
	var err error

	out.FNwkSIntKey, err = keywrap.NewKeyEnvelope(kekLabel, kek, keys.FNwkSIntKey)
	if err != nil {
		return out, errors.Wrap(err, "new key envelope error")
	}
	out.SNwkSIntKey, err = keywrap.NewKeyEnvelope(kekLabel, kek, keys.SNwkSIntKey)
	if err != nil {
		return out, errors.Wrap(err, "new key envelope error")
	}

	if keys.SelfTested {
		fb, sb := keys.FNwkSIntBlock, keys.SNwkSIntBlock
		out.FNwkSIntKeyDataPayload = &fb
		out.SNwkSIntKeyDataPayload = &sb
	}

	return out, nil
}

type outputWriter interface {
	Write(out keyOutput) error
}

func newOutputWriter(w io.Writer, format string) (outputWriter, error) {
	switch format {
	case "", "text":
		return &textWriter{w: w}, nil
	case "json":
		return &jsonWriter{enc: json.NewEncoder(w)}, nil
	default:
		return nil, errors.Errorf("unknown output format: %s", format)
	}
}

type textWriter struct {
	w io.Writer
}

func (t *textWriter) Write(out keyOutput) error {
	var lines []string

	if out.Line != 0 {
		lines = append(lines, fmt.Sprintf("# line %d", out.Line))
	}
	if out.Error != "" {
		lines = append(lines, "Error:"+out.Error)
	}
	if out.FNwkSIntKey != nil && out.FNwkSIntKey.KEKLabel != "" {
		lines = append(lines, "KEKLabel:"+out.FNwkSIntKey.KEKLabel)
	}
	if out.FNwkSIntKey != nil {
		lines = append(lines, "FNwkSIntKey:"+hexcodec.Encode(out.FNwkSIntKey.AESKey))
	}
	if out.SNwkSIntKey != nil {
		lines = append(lines, "SNwkSIntKey:"+hexcodec.Encode(out.SNwkSIntKey.AESKey))
	}
	if out.FNwkSIntKeyDataPayload != nil {
		lines = append(lines, "FNwkSIntKey_DataPayload:"+out.FNwkSIntKeyDataPayload.String())
	}
	if out.SNwkSIntKeyDataPayload != nil {
		lines = append(lines, "SNwkSIntKey_DataPayload:"+out.SNwkSIntKeyDataPayload.String())
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(t.w, l); err != nil {
			return errors.Wrap(err, "write output error")
		}
	}
	return nil
}

type jsonWriter struct {
	enc *json.Encoder
}

func (j *jsonWriter) Write(out keyOutput) error {
	if err := j.enc.Encode(out); err != nil {
		return errors.Wrap(err, "encode json error")
	}
	return nil
}
