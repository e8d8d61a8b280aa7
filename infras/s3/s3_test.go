package s3_test

import (
	"hotel/config"
	"hotel/infras/otel/mocks"
	"hotel/infras/s3"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetObjectNameFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://cdn.example.com/"
	cfg.External.S3.APIEndpoint = "http://localhost:9000"

	svc := s3.New(cfg, mocks.NewOtel())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "uploaded room image", url: "https://cdn.example.com/room/4c1f.png", want: "room/4c1f.png"},
		{name: "foreign host", url: "https://other.example.com/room/4c1f.png", want: ""},
		{name: "bare domain", url: "https://cdn.example.com/", want: ""},
		{name: "empty", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.GetObjectNameFromURL(tt.url))
		})
	}
}
