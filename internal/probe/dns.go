package probe

import (
	"context"
	"fmt"
	"net"
)

// DNSProber resolves a domain with the OS resolver and succeeds when at
// least one A or AAAA record comes back.
type DNSProber struct {
	Domain   string
	Resolver *net.Resolver
}

func NewDNS(domain string, resolver *net.Resolver) *DNSProber {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &DNSProber{Domain: domain, Resolver: resolver}
}

func (p *DNSProber) Name() string {
	return fmt.Sprintf("dns '%s'", p.Domain)
}

func (p *DNSProber) Probe(ctx context.Context, note func(string)) error {
	ips, err := p.Resolver.LookupIP(ctx, "ip", p.Domain)
	if err != nil {
		return err
	}
	if len(ips) == 0 {
		return fmt.Errorf("no address records for %s", p.Domain)
	}
	return nil
}
