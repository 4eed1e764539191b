// Command headunitd runs the Android Auto head-unit protocol engine
// as a standalone daemon: it accepts one connection at a time,
// running one session to completion before accepting the next, and
// logs what it sees. A real head unit wires a concrete Integration
// with actual video/audio/input hardware in place of the stub used
// here; this binary exists to exercise the engine end to end.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/config"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/session"
	"github.com/headunit/aaengine/pkg/tlsengine"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "headunitd:", err)
		os.Exit(1)
	}

	factory := logging.NewDefaultLoggerFactory()
	log := factory.NewLogger("headunitd")

	clientCert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	if err != nil {
		log.Errorf("load tls certificate: %v", err)
		os.Exit(1)
	}

	trustStore, err := loadTrustStore(cfg.TLS.CAFile)
	if err != nil {
		log.Errorf("load trust store: %v", err)
		os.Exit(1)
	}

	sessionCfg := session.Config{
		Identity: integration.Identity{
			HeadUnitName:  cfg.Identity.HeadUnitName,
			CarModel:      cfg.Identity.CarModel,
			CarYear:       cfg.Identity.CarYear,
			CarSerial:     cfg.Identity.CarSerial,
			LeftHandDrive: cfg.Identity.LeftHandDrive,
		},
		ProtocolMajor: 1,
		ProtocolMinor: 0,
		TLSConfig:     tlsengine.NewAcceptAnyLeafConfig(trustStore, clientCert),
		LoggerFactory: factory,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Listen.Addr, sessionCfg, log); err != nil {
		log.Errorf("headunitd: %v", err)
		os.Exit(1)
	}
}

func loadTrustStore(caFile string) (*x509.CertPool, error) {
	if caFile == "" {
		return x509.NewCertPool(), nil
	}
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read ca file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from %s", caFile)
	}
	return pool, nil
}

// run accepts connections on addr and runs one session per connection
// to completion, sequentially. An exponential backoff governs how
// soon the next Accept is attempted after a session ends abnormally;
// a peer-initiated shutdown resets the backoff immediately since it
// is an expected, clean end rather than a fault.
func run(ctx context.Context, addr string, sessionCfg session.Config, log logging.LeveledLogger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer ln.Close()
	log.Infof("listening on %s", addr)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	bo := backoff.NewExponentialBackOff()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			log.Errorf("accept: %v", err)
			time.Sleep(bo.NextBackOff())
			continue
		}

		stub := newStubIntegration(sessionCfg.Identity)
		s, err := session.New(ctx, conn, sessionCfg, stub)
		if err != nil {
			log.Errorf("build session: %v", err)
			conn.Close()
			continue
		}

		log.Infof("session %s: accepted %s", s.ID, conn.RemoteAddr())
		if err := s.Run(ctx); err != nil {
			log.Infof("session %s: ended: %v", s.ID, err)
			if isPeerShutdown(err) {
				bo.Reset()
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(bo.NextBackOff()):
			}
		} else {
			bo.Reset()
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}
