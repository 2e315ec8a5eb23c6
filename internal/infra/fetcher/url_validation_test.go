package fetcher

import (
	"errors"
	"net"
	"net/url"
	"testing"
)

func TestValidateURL(t *testing.T) {
	orig := lookupIP
	t.Cleanup(func() { lookupIP = orig })
	lookupIP = func(host string) ([]net.IP, error) {
		switch host {
		case "internal.example":
			return []net.IP{net.ParseIP("10.0.0.5")}, nil
		case "news.example":
			return []net.IP{net.ParseIP("93.184.216.34")}, nil
		default:
			return nil, errors.New("no such host")
		}
	}

	tests := []struct {
		name    string
		raw     string
		deny    bool
		wantErr error
	}{
		{name: "public host", raw: "https://news.example/feed", deny: true},
		{name: "ftp scheme", raw: "ftp://news.example/feed", deny: true, wantErr: ErrInvalidURL},
		{name: "missing host", raw: "https:///feed", deny: true, wantErr: ErrInvalidURL},
		{name: "loopback literal", raw: "http://127.0.0.1:8080/", deny: true, wantErr: ErrPrivateIP},
		{name: "ipv6 loopback", raw: "http://[::1]/", deny: true, wantErr: ErrPrivateIP},
		{name: "link local", raw: "http://169.254.169.254/latest", deny: true, wantErr: ErrPrivateIP},
		{name: "resolves private", raw: "https://internal.example/", deny: true, wantErr: ErrPrivateIP},
		{name: "dns failure", raw: "https://unknown.example/", deny: true, wantErr: ErrDNSLookup},
		{name: "private allowed when disabled", raw: "http://127.0.0.1:8080/", deny: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			err = validateURL(u, tt.deny)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{ip: "127.0.0.1", want: true},
		{ip: "10.1.2.3", want: true},
		{ip: "172.16.0.1", want: true},
		{ip: "192.168.1.1", want: true},
		{ip: "fe80::1", want: true},
		{ip: "fc00::1", want: true},
		{ip: "8.8.8.8", want: false},
		{ip: "2001:4860:4860::8888", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := isPrivateIP(net.ParseIP(tt.ip)); got != tt.want {
				t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}
