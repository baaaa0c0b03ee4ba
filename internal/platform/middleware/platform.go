package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"onboard/pkg/requestcontext"
)

// ClientMetadata stores the User-Agent and the derived mobile platform in the
// context. An explicit X-Client-Platform header wins over detection.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		platform := PlatformFromHeader(r.Header.Get(HeaderClientPlatform))
		if platform == requestcontext.PlatformUnknown {
			platform = DetectPlatform(ua)
		}
		ctx := requestcontext.WithUserAgent(r.Context(), ua)
		ctx = requestcontext.WithClientPlatform(ctx, platform)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PlatformFromHeader parses an explicit platform declaration.
func PlatformFromHeader(v string) requestcontext.Platform {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "ios":
		return requestcontext.PlatformIOS
	case "android":
		return requestcontext.PlatformAndroid
	default:
		return requestcontext.PlatformUnknown
	}
}

// DetectPlatform classifies a User-Agent. Browser-style agents are parsed with
// useragent; native HTTP stacks (okhttp on Android, CFNetwork on iOS) are
// recognised by their product tokens.
func DetectPlatform(ua string) requestcontext.Platform {
	if ua == "" {
		return requestcontext.PlatformUnknown
	}
	parsed := useragent.New(ua)
	switch parsed.Platform() {
	case "iPhone", "iPad", "iPod":
		return requestcontext.PlatformIOS
	}
	osName := parsed.OSInfo().Name
	switch {
	case strings.Contains(osName, "Android"):
		return requestcontext.PlatformAndroid
	case strings.Contains(osName, "iPhone"), strings.Contains(osName, "iOS"):
		return requestcontext.PlatformIOS
	}

	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "okhttp"), strings.Contains(lower, "android"):
		return requestcontext.PlatformAndroid
	case strings.Contains(lower, "cfnetwork"), strings.Contains(lower, "darwin"), strings.Contains(lower, "iphone"):
		return requestcontext.PlatformIOS
	}
	return requestcontext.PlatformUnknown
}
