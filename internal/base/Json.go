package base

import (
	"bytes"
	"fmt"
	"io"

	fastJson "github.com/goccy/go-json"
)

/***************************************
 * JSON
 ***************************************/

type JsonOptions struct {
	PrettyPrint bool
}

type JsonOptionFunc = func(*JsonOptions)

func OptionJsonPrettyPrint(enabled bool) JsonOptionFunc {
	return func(jo *JsonOptions) {
		jo.PrettyPrint = enabled
	}
}

func JsonSerialize(x interface{}, dst io.Writer, options ...JsonOptionFunc) error {
	var opts JsonOptions
	for _, it := range options {
		it(&opts)
	}

	encoder := fastJson.NewEncoder(dst)

	if opts.PrettyPrint {
		encoder.SetIndent("", "  ")
	} else {
		encoder.SetIndent("", "")
	}

	// map keys stay sorted: generated manifests must be reproducible
	return encoder.EncodeWithOption(x,
		fastJson.DisableHTMLEscape(),
		fastJson.DisableNormalizeUTF8())
}
func JsonDeserialize(x interface{}, src io.Reader) error {
	decoder := fastJson.NewDecoder(src)
	return decoder.Decode(x)
}

func JsonMarshal(x interface{}, options ...JsonOptionFunc) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := JsonSerialize(x, &buf, options...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func PrettyPrint(x interface{}) string {
	if raw, err := JsonMarshal(x, OptionJsonPrettyPrint(true)); err == nil {
		return UnsafeStringFromBytes(raw)
	} else {
		return fmt.Sprint(err)
	}
}

type PrettyPrinter struct {
	Ref interface{}
}

func (x PrettyPrinter) String() string {
	return PrettyPrint(x.Ref)
}
