package anchor

import (
	"crypto/sha256"
)

const DiscriminatorSize = 8

// Discriminator is the 8-byte prefix identifying an instruction.
type Discriminator [DiscriminatorSize]byte

func sha256First8(s string) Discriminator {
	h := sha256.Sum256([]byte(s))
	var d Discriminator
	copy(d[:], h[:DiscriminatorSize])
	return d
}

// InstructionDiscriminator returns sha256("global:<snake_name>")[:8].
func InstructionDiscriminator(name string) Discriminator {
	return sha256First8("global:" + SnakeCase(name))
}
