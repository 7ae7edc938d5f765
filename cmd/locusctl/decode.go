package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
)

// decoders maps a record kind to a function producing a JSON-friendly value.
var decoders = map[string]func([]byte) (any, error){
	"point":    func(b []byte) (any, error) { return geodata.DecodePoint(b) },
	"points":   func(b []byte) (any, error) { return geodata.DecodePoints(b) },
	"track":    func(b []byte) (any, error) { return geodata.DecodeTrack(b) },
	"tracks":   func(b []byte) (any, error) { return geodata.DecodeTracks(b) },
	"profiles": func(b []byte) (any, error) { return geodata.DecodeProfiles(b) },
	"appinfo":  func(b []byte) (any, error) { return geodata.DecodeAppInfo(b) },
	"update":   func(b []byte) (any, error) { return geodata.DecodeUpdateContainer(b) },
	"bitmap":   func(b []byte) (any, error) { return geodata.DecodeBitmapLoadResult(b) },
	"host":     func(b []byte) (any, error) { return hostapp.DecodeHostVersion(b) },
	"request": func(b []byte) (any, error) {
		req, err := action.DecodeRequest(b)
		if err != nil {
			return nil, err
		}
		return requestView(*req), nil
	},
	"response": func(b []byte) (any, error) { return action.DecodeResponse(b) },
}

func decoderKinds() []string {
	kinds := make([]string, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func runDecode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	kind := fs.String("type", "point", "record type: "+strings.Join(decoderKinds(), "|"))
	in := fs.String("in", "-", "input file, - for stdin")
	hexInput := fs.Bool("hex", false, "input is hex encoded")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := readInput(*in)
	if err != nil {
		return err
	}
	if *hexInput {
		raw, err = hex.DecodeString(strings.Join(strings.Fields(string(raw)), ""))
		if err != nil {
			return fmt.Errorf("decode hex: %w", err)
		}
	}
	v, err := decodeRecord(*kind, raw)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func decodeRecord(kind string, raw []byte) (any, error) {
	decode, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record type %q (want %s)", kind, strings.Join(decoderKinds(), "|"))
	}
	return decode(raw)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

type requestJSON struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Action     string         `json:"action"`
	Address    string         `json:"address"`
	Package    string         `json:"package,omitempty"`
	PayloadKey string         `json:"payload_key,omitempty"`
	Payload    []byte         `json:"payload,omitempty"`
	Selection  string         `json:"selection,omitempty"`
	Extras     map[string]any `json:"extras,omitempty"`
}

func requestView(r action.Request) requestJSON {
	return requestJSON{
		ID:         r.ID,
		Kind:       r.Kind.String(),
		Action:     r.Action,
		Address:    r.Address,
		Package:    r.Package,
		PayloadKey: r.PayloadKey,
		Payload:    r.Payload,
		Selection:  r.Selection,
		Extras:     r.Extras.Map(),
	}
}
