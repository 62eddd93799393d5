// Package otp validates one-time-password codes (TOTP and HOTP) against raw
// key material.
//
// This is typically used for MFA token management: after enrolling an
// authenticator app, validate the codes it produces to prove the enrollment
// worked.
package otp
