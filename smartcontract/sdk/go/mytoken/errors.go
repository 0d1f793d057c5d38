package mytoken

import (
	"errors"

	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// Program error codes, in declaration order from 6000.
const (
	ErrorCodeNameTooLong uint32 = 6000 + iota
	ErrorCodeSymbolTooLong
	ErrorCodeUriTooLong
	ErrorCodeUnauthorizedUpdateAuthority
	ErrorCodeMetadataNotInitialized
	ErrorCodeInvalidMetadataPointer
	ErrorCodeExtensionInitializationFailed
	ErrorCodeAmountNotAllow
	ErrorCodeNotEnoughAmount
	ErrorCodeNotOwner
	ErrorCodeMetadataDeserializationFailed
)

var programErrors = []anchor.IDLErrorCode{
	{Code: ErrorCodeNameTooLong, Name: "NameTooLong", Msg: "Name too long (max 32 characters)"},
	{Code: ErrorCodeSymbolTooLong, Name: "SymbolTooLong", Msg: "Symbol too long (max 10 characters)"},
	{Code: ErrorCodeUriTooLong, Name: "UriTooLong", Msg: "URI too long (max 200 characters)"},
	{Code: ErrorCodeUnauthorizedUpdateAuthority, Name: "UnauthorizedUpdateAuthority", Msg: "Unauthorized update authority"},
	{Code: ErrorCodeMetadataNotInitialized, Name: "MetadataNotInitialized", Msg: "Metadata extension not initialized"},
	{Code: ErrorCodeInvalidMetadataPointer, Name: "InvalidMetadataPointer", Msg: "Invalid metadata pointer"},
	{Code: ErrorCodeExtensionInitializationFailed, Name: "ExtensionInitializationFailed", Msg: "Extension initialization failed"},
	{Code: ErrorCodeAmountNotAllow, Name: "AmountNotAllow", Msg: "Amount is less than 0"},
	{Code: ErrorCodeNotEnoughAmount, Name: "NotEnoughAmount", Msg: "You have not enough tokens"},
	{Code: ErrorCodeNotOwner, Name: "NotOwner", Msg: "You are not the owner to this account"},
	{Code: ErrorCodeMetadataDeserializationFailed, Name: "MetadataDeserializationFailed", Msg: "Metadata deserialization failed"},
}

// IDL describes the program's instructions and error table for error decoding and workspace
// registration.
func IDL() *anchor.IDL {
	names := []string{
		InstructionInitializeMint,
		InstructionMintTokens,
		InstructionTransferTokens,
		InstructionApprove,
		InstructionUpdateMetadata,
		InstructionGetTokenInfo,
		InstructionBurnTokens,
	}
	idl := &anchor.IDL{
		Address:  ProgramID.String(),
		Metadata: anchor.IDLMetadata{Name: ProgramName, Version: "0.1.0"},
		Errors:   append([]anchor.IDLErrorCode(nil), programErrors...),
	}
	for _, name := range names {
		disc := anchor.InstructionDiscriminator(name)
		idl.Instructions = append(idl.Instructions, anchor.IDLInstruction{
			Name:          name,
			Discriminator: disc[:],
		})
	}
	return idl
}
