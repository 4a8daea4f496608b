// Package explorer builds shareable Solana explorer links. It never touches the network.
package explorer

import (
	"errors"
	"fmt"
	"net/url"
)

const BaseURL = "https://explorer.solana.com"

type Kind string

const (
	KindTx      Kind = "tx"
	KindAddress Kind = "address"
	KindBlock   Kind = "block"
)

var (
	ErrValueRequired = errors.New("value is required")
	ErrInvalidKind   = errors.New("invalid link kind")
)

// BuildLink returns https://explorer.solana.com/<kind>/<value>?cluster=<network>.
//
// An empty network or the mainnet alias is written as mainnet-beta. localnet has no public explorer
// cluster, so it is expressed as a custom cluster pointing at customRPCURL.
func BuildLink(kind Kind, value string, network string, customRPCURL string) (string, error) {
	switch kind {
	case KindTx, KindAddress, KindBlock:
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if value == "" {
		return "", ErrValueRequired
	}

	link := BaseURL + "/" + string(kind) + "/" + url.PathEscape(value)

	switch network {
	case "", "mainnet-beta", "mainnet":
		return link + "?cluster=mainnet-beta", nil
	case "localnet", "custom":
		q := url.Values{}
		q.Set("cluster", "custom")
		if customRPCURL != "" {
			q.Set("customUrl", customRPCURL)
		}
		return link + "?" + q.Encode(), nil
	default:
		return link + "?cluster=" + url.QueryEscape(network), nil
	}
}
