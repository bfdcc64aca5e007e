package probe

import (
	"context"
	"testing"
)

func TestDNSProber_Localhost(t *testing.T) {
	p := NewDNS("localhost", nil)
	if err := p.Probe(context.Background(), nil); err != nil {
		t.Skipf("resolver unavailable in this environment: %v", err)
	}
}

func TestDNSProber_Name(t *testing.T) {
	p := NewDNS("example.com", nil)
	if p.Name() != "dns 'example.com'" {
		t.Fatalf("name wrong: %q", p.Name())
	}
}
