package storage

import (
	"fmt"
	"strings"

	appconfig "github.com/denisAlshanov/stickerGallery/internal/config"
)

// publicURLPrefix picks the base of permanent object URLs: an explicit CDN or
// public host first, then a path-style URL on a custom endpoint, then the AWS
// virtual-hosted form.
func publicURLPrefix(cfg *appconfig.S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/") + "/"
	case cfg.EndpointURL != "":
		return strings.TrimRight(cfg.EndpointURL, "/") + "/" + cfg.BucketName + "/"
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.BucketName, cfg.Region)
	}
}

func joinPublicURL(prefix, key string) string {
	return prefix + strings.TrimLeft(key, "/")
}
