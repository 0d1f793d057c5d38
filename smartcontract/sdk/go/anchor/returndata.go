package anchor

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

const returnLogPrefix = "Program return: "

// ReturnData extracts the last value returned by programID from simulation or transaction logs.
// The boolean is false when the program returned nothing.
func ReturnData(logs []string, programID solana.PublicKey) ([]byte, bool, error) {
	want := programID.String()
	for i := len(logs) - 1; i >= 0; i-- {
		rest, ok := strings.CutPrefix(logs[i], returnLogPrefix)
		if !ok {
			continue
		}
		id, payload, ok := strings.Cut(rest, " ")
		if !ok || id != want {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode return data: %w", err)
		}
		return data, true, nil
	}
	return nil, false, nil
}
