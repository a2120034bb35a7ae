package utils

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetPathID reads the named path parameter and requires it to be a UUID.
func GetPathID(ctx *gin.Context, name, label string) (string, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return "", fmt.Errorf("%s ID not found", label)
	}

	id, err := uuid.Parse(raw)

	if err != nil {
		return "", fmt.Errorf("Invalid %s ID", label)
	}

	return id.String(), nil
}

// ValidID reports whether s is a well-formed entity id.
func ValidID(s string) error {
	if s == "" {
		return errors.New("ID is required")
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("Invalid ID")
	}
	return nil
}
