package crypto

import (
	"crypto/rand"
	"math"
)

const (
	nanoidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	nanoidSize     = 22 // 22 * 6 = 132 bits of entropy (uuid is 128 bits)
)

// NanoID generates a URL-safe random identifier using rejection sampling
// over the default 64-character alphabet.
func NanoID() (string, error) {
	alphabetLen := len(nanoidAlphabet)
	mask := nanoidMask(alphabetLen)
	step := int(math.Ceil(1.6 * float64(mask*nanoidSize) / float64(alphabetLen)))

	id := make([]byte, nanoidSize)
	buffer := make([]byte, step)

	for position := 0; position < nanoidSize; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		for i := 0; i < step && position < nanoidSize; i++ {
			index := buffer[i] & byte(mask)
			if int(index) < alphabetLen {
				id[position] = nanoidAlphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}

func nanoidMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return 255
}
