// Package dialer turns a resolved address into the byte stream a
// single HTTP exchange owns, optionally upgraded to TLS.
package dialer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/idna"

	"github.com/asynckit/go-fetch/internal/model"
)

// Dialer opens the stream for one exchange. tlsHost selects a TLS
// upgrade when non-empty and is the name certificates are verified
// against, which is the URL hostname even when dialing a relay.
type Dialer interface {
	Dial(ctx context.Context, addr, tlsHost string) (io.ReadWriteCloser, error)
}

type CoreDialer struct {
	ResolveConfig *ResolveConfig

	TLSConfig *tls.Config // the config to use, nil means defaults

	Logger *zap.Logger // nil disables dial logging
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: d.ResolveConfig.Clone(),
		TLSConfig:     d.TLSConfig.Clone(),
		Logger:        d.Logger,
	}
}

func (d *CoreDialer) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

var zeroDialer net.Dialer
var customDNSDialer = net.Dialer{
	Resolver: &customServerResolver,
}

func (d *CoreDialer) Dial(ctx context.Context, addr, tlsHost string) (io.ReadWriteCloser, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: address %q: %v", model.ErrUnableToConnect, addr, err)
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}

	network, dialer, dialctx, dst := "tcp", &zeroDialer, ctx, net.JoinHostPort(host, port)
	if cfg := d.ResolveConfig; cfg != nil {
		if cfg.Network == "ip4" {
			network = "tcp4"
		} else if cfg.Network == "ip6" {
			network = "tcp6"
		}
		if static, ok := cfg.StaticHosts[host]; ok {
			dst = net.JoinHostPort(static, port)
		}
		if dns := cfg.CustomDNSServer; dns != "" {
			dialctx = dnsServerCtx{dialctx, dns}
			dialer = &customDNSDialer
		}
	}

	connID := uuid.NewString()
	log := d.logger().With(zap.String("conn_id", connID), zap.String("addr", dst))

	conn, err := dialer.DialContext(dialctx, network, dst)
	if err != nil {
		log.Debug("dial failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", model.ErrUnableToConnect, err)
	}
	log.Debug("connected", zap.String("network", network))

	if tlsHost != "" {
		config := d.TLSConfig.Clone()
		if config == nil {
			config = &tls.Config{}
		}
		config.ServerName = tlsHost
		c := tls.Client(conn, config)
		if err := c.HandshakeContext(ctx); err != nil {
			conn.Close()
			log.Debug("tls handshake failed", zap.Error(err))
			return nil, fmt.Errorf("%w: tls: %v", model.ErrUnableToConnect, err)
		}
		log.Debug("tls established", zap.String("server_name", tlsHost))
		return c, nil
	}
	return conn, nil
}
