package utils

import (
	rndm "math/rand"
	"mime/multipart"
	"net/http"
	"net/mail"
	"os"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var meetRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateMeetCode creates a random lowercase string of length n, safe for
// use inside a meeting URL.
func GenerateMeetCode(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = meetRunes[rndm.Intn(len(meetRunes))]
	}
	return string(b)
}

// --- Validation ---

func ValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// --- Image Validation ---

var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

func ValidateImageFileType(w http.ResponseWriter, header *multipart.FileHeader) bool {
	mimeType := header.Header.Get("Content-Type")
	if !SupportedImageTypes[mimeType] {
		http.Error(w, "Invalid file type. Supported formats: JPEG, PNG, WebP, GIF.", http.StatusBadRequest)
		return false
	}
	return true
}

// --- Directory Helper ---

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
