package net

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service boards advertise under.
const ServiceType = "_infiniteboard._tcp"

// Advertise announces a board server on port until the returned server is
// shut down. An empty instance uses the host name.
func Advertise(instance string, port int) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"InfiniteBoard"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Service is one board found on the network.
type Service struct {
	Instance string
	Addr     string // host:port
}

// Browse looks for advertised boards for up to timeout and calls found for
// each entry with an IPv4 address. It returns early when ctx is done.
func Browse(ctx context.Context, timeout time.Duration, found func(Service)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Service{
				Instance: e.Name,
				Addr:     fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port),
			})
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() { errc <- mdns.Query(params) }()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		err = ctx.Err()
		// Query keeps writing to entries until its timeout.
		go func() { <-errc; close(entries) }()
		return err
	}
	close(entries)
	<-done
	return err
}
