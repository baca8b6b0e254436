package governor

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cast"
)

func parseProposalID(arg string) (uint64, error) {
	id, err := cast.ToUint64E(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id %q: %w", arg, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid proposal id %q: ids start at 1", arg)
	}

	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
