package fetch

import (
	"github.com/asynckit/go-fetch/internal/dialer"
)

type Dialer = dialer.Dialer
type CoreDialer = dialer.CoreDialer

type ResolveConfig = dialer.ResolveConfig
