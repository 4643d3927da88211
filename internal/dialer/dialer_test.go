package dialer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asynckit/go-fetch/internal/model"
)

func TestDialAddressWithoutPort(t *testing.T) {
	d := &CoreDialer{}
	_, err := d.Dial(context.Background(), "no-port-here", "")
	assert.ErrorIs(t, err, model.ErrUnableToConnect)
}

func TestDialConnects(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan struct{})
	go func() {
		if c, err := ln.Accept(); err == nil {
			close(accepted)
			c.Close()
		}
	}()

	d := &CoreDialer{Logger: zap.NewNop()}
	conn, err := d.Dial(context.Background(), ln.Addr().String(), "")
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-accepted:
	case <-time.After(time.Second):
		t.Fatal("listener never saw the connection")
	}
}

func TestDialStaticHostOverride(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	go func() {
		if c, err := ln.Accept(); err == nil {
			c.Close()
		}
	}()

	d := &CoreDialer{ResolveConfig: &ResolveConfig{
		StaticHosts: map[string]string{"service.internal": "127.0.0.1"},
	}}
	conn, err := d.Dial(context.Background(), "service.internal:"+port, "")
	require.NoError(t, err)
	conn.Close()
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	d := &CoreDialer{}
	_, err = d.Dial(context.Background(), addr, "")
	assert.ErrorIs(t, err, model.ErrUnableToConnect)
}

func TestClone(t *testing.T) {
	d := &CoreDialer{ResolveConfig: &ResolveConfig{Network: "ip4"}}
	c := d.Clone()
	require.NotNil(t, c.ResolveConfig)
	c.ResolveConfig.Network = "ip6"
	assert.Equal(t, "ip4", d.ResolveConfig.Network)

	var nilCfg *ResolveConfig
	assert.Nil(t, nilCfg.Clone())
}
