package media

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

const service = "cloudinary"

// Client uploads images to Cloudinary with signed, server-side uploads.
type Client struct {
	base   string
	cloud  string
	key    string
	secret string
	hc     *http.Client
	rl     *rate.Limiter
	now    func() time.Time
}

func New(base, cloud, key, secret string, rps int) (*Client, error) {
	if cloud == "" || key == "" || secret == "" {
		return nil, fmt.Errorf("cloudinary cloud name, API key and secret are required")
	}
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		cloud:  cloud,
		key:    key,
		secret: secret,
		hc:     &http.Client{Timeout: 30 * time.Second},
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
		now:    time.Now,
	}, nil
}

var (
	ErrUnauthorized = errors.New("cloudinary: unauthorized")
	ErrRejected     = errors.New("cloudinary: upload rejected")
)

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends img as a base64 data URI and returns its public https URL.
// Failures are returned as-is; callers decide whether to abort.
func (c *Client) Upload(ctx context.Context, img domain.Image) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.key)
	form.Set("signature", sign(params, c.secret))
	form.Set("file", dataURI(img))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.base, url.PathEscape(c.cloud))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-booking/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, "image.upload", 0, time.Since(start))
		observability.ObserveExternalError(service, "image.upload", err)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, "image.upload", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var out uploadResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&out)
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrRejected, out.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	case resp.StatusCode >= 300:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", errors.New("cloudinary: response carried no url")
}

// sign builds the Cloudinary request signature: params sorted by key, joined
// as k=v pairs with '&', the secret appended, SHA-1 hex.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func dataURI(img domain.Image) string {
	ct := img.ContentType
	if ct == "" {
		ct = http.DetectContentType(img.Data)
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
