package source

import (
	"context"
	"testing"

	"github.com/matzehuels/orbit/pkg/errors"
)

func TestDialMongoRequiresURI(t *testing.T) {
	_, err := DialMongo(context.Background(), MongoOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("DialMongo without uri = %v, want INVALID_CONFIG", err)
	}
}
