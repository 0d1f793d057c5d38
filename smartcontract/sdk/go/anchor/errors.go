package anchor

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

var (
	// ErrConfiguration is returned when the provider context is missing or malformed. It is always
	// returned before any network call is attempted.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound is returned when a program, its IDL, or one of its instructions cannot be resolved.
	ErrNotFound = errors.New("not found")

	// ErrRPC is returned when submitting, executing, or confirming a transaction fails.
	ErrRPC = errors.New("rpc error")

	ErrProgramNotFound     = fmt.Errorf("program %w", ErrNotFound)
	ErrInstructionNotFound = fmt.Errorf("instruction %w", ErrNotFound)
	ErrNoSigner            = fmt.Errorf("%w: no signer configured", ErrConfiguration)

	// Invoke-path failures detected before submission are still reported as RPC errors.
	ErrMissingAccount = fmt.Errorf("%w: missing account", ErrRPC)
	ErrInvalidArgs    = fmt.Errorf("%w: invalid instruction arguments", ErrRPC)
)

// customErrorOffset is the first error number available to program-defined error enums.
const customErrorOffset = 6000

// ProgramError is an instruction failure reported by the cluster, decoded against the program's
// IDL error table and the framework's reserved error numbers.
type ProgramError struct {
	InstructionIndex int
	Code             uint32
	Name             string
	Msg              string
	Logs             []string
}

func (e *ProgramError) Error() string {
	switch {
	case e.Name != "" && e.Msg != "":
		return fmt.Sprintf("instruction %d failed: %s (%d): %s", e.InstructionIndex, e.Name, e.Code, e.Msg)
	case e.Name != "":
		return fmt.Sprintf("instruction %d failed: %s (%d)", e.InstructionIndex, e.Name, e.Code)
	default:
		return fmt.Sprintf("instruction %d failed: custom program error 0x%x", e.InstructionIndex, e.Code)
	}
}

// IsCustom reports whether the code falls in the program-defined range.
func (e *ProgramError) IsCustom() bool {
	return e.Code >= customErrorOffset
}

type frameworkError struct {
	name string
	msg  string
}

var frameworkErrors = map[uint32]frameworkError{
	100:  {"InstructionMissing", "8 byte instruction identifier not provided"},
	101:  {"InstructionFallbackNotFound", "Fallback functions are not supported"},
	102:  {"InstructionDidNotDeserialize", "The program could not deserialize the given instruction"},
	103:  {"InstructionDidNotSerialize", "The program could not serialize the given instruction"},
	2000: {"ConstraintMut", "A mut constraint was violated"},
	2001: {"ConstraintHasOne", "A has one constraint was violated"},
	2002: {"ConstraintSigner", "A signer constraint was violated"},
	2003: {"ConstraintRaw", "A raw constraint was violated"},
	2004: {"ConstraintOwner", "An owner constraint was violated"},
	2005: {"ConstraintRentExempt", "A rent exemption constraint was violated"},
	2006: {"ConstraintSeeds", "A seeds constraint was violated"},
	2012: {"ConstraintAddress", "An address constraint was violated"},
	3000: {"AccountDiscriminatorAlreadySet", "The account discriminator was already set on this account"},
	3001: {"AccountDiscriminatorNotFound", "No discriminator was found on the account"},
	3002: {"AccountDiscriminatorMismatch", "Account discriminator did not match what was expected"},
	3003: {"AccountDidNotDeserialize", "Failed to deserialize the account"},
	3005: {"AccountNotEnoughKeys", "Not enough account keys given to the instruction"},
	3006: {"AccountNotMutable", "The given account is not mutable"},
	3007: {"AccountOwnedByWrongProgram", "The given account is owned by a different program than expected"},
	3010: {"AccountNotSigner", "The given account did not sign"},
	3011: {"AccountNotSystemOwned", "The given account is not owned by the system program"},
	3012: {"AccountNotInitialized", "The program expected this account to be already initialized"},
	4100: {"DeclaredProgramIdMismatch", "The declared program id does not match the actual program id"},
}

var anchorLogPattern = regexp.MustCompile(`Error Code: (\w+)\. Error Number: (\d+)\. Error Message: (.*?)\.?$`)

// decodeTransactionError turns the JSON form of a TransactionError (as found in signature statuses,
// simulation results and preflight failures) into a ProgramError. It returns nil when the error is
// not an instruction-level custom error.
func decodeTransactionError(txErr any, logs []string, idl *IDL) *ProgramError {
	m, ok := txErr.(map[string]any)
	if !ok {
		return nil
	}
	ixErr, ok := m["InstructionError"].([]any)
	if !ok || len(ixErr) != 2 {
		return nil
	}
	index, ok := toUint32(ixErr[0])
	if !ok {
		return nil
	}
	detail, ok := ixErr[1].(map[string]any)
	if !ok {
		return nil
	}
	code, ok := toUint32(detail["Custom"])
	if !ok {
		return nil
	}

	pe := &ProgramError{InstructionIndex: int(index), Code: code, Logs: logs}
	if idl != nil {
		if e, ok := idl.ErrorByCode(code); ok {
			pe.Name, pe.Msg = e.Name, e.Msg
		}
	}
	if pe.Name == "" {
		if fe, ok := frameworkErrors[code]; ok {
			pe.Name, pe.Msg = fe.name, fe.msg
		}
	}
	if pe.Name == "" {
		for _, line := range logs {
			match := anchorLogPattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			if n, err := strconv.ParseUint(match[2], 10, 32); err == nil && uint32(n) == code {
				pe.Name, pe.Msg = match[1], strings.TrimSpace(match[3])
			}
		}
	}
	return pe
}

// decodeRPCError extracts the transaction error and logs carried by a preflight failure.
func decodeRPCError(err error, idl *IDL) *ProgramError {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return nil
	}
	data, ok := rpcErr.Data.(map[string]any)
	if !ok {
		return nil
	}
	var logs []string
	if raw, ok := data["logs"].([]any); ok {
		for _, l := range raw {
			if s, ok := l.(string); ok {
				logs = append(logs, s)
			}
		}
	}
	return decodeTransactionError(data["err"], logs, idl)
}

func toUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i < 0 {
			return 0, false
		}
		return uint32(i), true
	case int:
		return uint32(n), true
	case uint32:
		return n, true
	case int64:
		return uint32(n), true
	case uint64:
		return uint32(n), true
	}
	return 0, false
}
