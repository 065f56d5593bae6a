package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainprov/chainprov/op-service/eth"
)

type BlockSigner interface {
	// SignBlockV1 signs a block payload hash, with the V1 signing domain
	SignBlockV1(ctx context.Context, chainID eth.ChainID, payloadHash common.Hash) (sig eth.Bytes65, err error)
}

// LocalSigner is suitable for testing
type LocalSigner struct {
	priv *ecdsa.PrivateKey
}

var _ BlockSigner = (*LocalSigner)(nil)

func NewLocalSigner(priv *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{priv: priv}
}

func (s *LocalSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.priv.PublicKey)
}

func (s *LocalSigner) SignBlockV1(ctx context.Context, chainID eth.ChainID, payloadHash common.Hash) (sig eth.Bytes65, err error) {
	msg := BlockSigningMessage{
		Domain:      SigningDomainBlocksV1,
		ChainID:     chainID,
		PayloadHash: payloadHash,
	}
	return s.SignHash(msg.ToSigningHash())
}

// SignHash signs an arbitrary 32 byte digest, e.g. a header seal hash.
func (s *LocalSigner) SignHash(hash common.Hash) (eth.Bytes65, error) {
	if s.priv == nil {
		return eth.Bytes65{}, errors.New("signer is closed")
	}
	signature, err := crypto.Sign(hash[:], s.priv)
	if err != nil {
		return eth.Bytes65{}, err
	}
	return eth.Bytes65(signature), nil
}

func (s *LocalSigner) Close() error {
	s.priv = nil
	return nil
}
