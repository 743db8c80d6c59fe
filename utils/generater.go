package utils

import (
	"crypto/rand"
	"fmt"
)

func GenerateOTP() string {
	// Generate a 6-digit OTP
	var number [4]byte
	rand.Read(number[:])
	n := uint32(number[0])<<24 | uint32(number[1])<<16 | uint32(number[2])<<8 | uint32(number[3])
	return fmt.Sprintf("%06d", n%1000000)
}
