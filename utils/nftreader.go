// utils/nftreader.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"camera-status-bot/models"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc721ABI = `[
  {"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

// NFTReader reads single tokens from the camera contract: ownerOf for the
// current holder, tokenURI plus a metadata fetch for the shot counter.
// ipfs:// URIs are rewritten to an HTTP gateway before fetching.
type NFTReader struct {
	client      *ethclient.Client
	contract    common.Address
	abi         abi.ABI
	ipfsGateway string
	httpClient  *http.Client
}

func NewNFTReader(rpcURL, contractAddress, ipfsGateway string) (*NFTReader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc721 abi: %w", err)
	}
	return &NFTReader{
		client:      client,
		contract:    common.HexToAddress(contractAddress),
		abi:         parsed,
		ipfsGateway: ipfsGateway,
		httpClient:  HTTPClient,
	}, nil
}

func (r *NFTReader) Close() {
	r.client.Close()
}

// OwnerOf returns the current holder address, lowercased like the store keys.
func (r *NFTReader) OwnerOf(ctx context.Context, tokenID models.TokenID) (string, error) {
	id, ok := tokenID.BigInt()
	if !ok {
		return "", fmt.Errorf("token id %q is not numeric", tokenID)
	}
	data, err := r.abi.Pack("ownerOf", id)
	if err != nil {
		return "", fmt.Errorf("pack ownerOf: %w", err)
	}
	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("ownerOf(%s): %w", tokenID, err)
	}
	vals, err := r.abi.Unpack("ownerOf", out)
	if err != nil {
		return "", fmt.Errorf("unpack ownerOf(%s): %w", tokenID, err)
	}
	owner, ok := vals[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("ownerOf(%s): unexpected return type", tokenID)
	}
	return strings.ToLower(owner.Hex()), nil
}

// Metadata resolves tokenURI and fetches the JSON document behind it.
func (r *NFTReader) Metadata(ctx context.Context, tokenID models.TokenID) (*models.NFTMetadata, error) {
	uri, err := r.tokenURI(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(uri, "ipfs://") {
		uri = r.ipfsGateway + strings.TrimPrefix(uri, "ipfs://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("metadata request for token %s: %w", tokenID, err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata fetch for token %s: %w", tokenID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata fetch for token %s: status %d", tokenID, resp.StatusCode)
	}
	var md models.NFTMetadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, fmt.Errorf("decode metadata for token %s: %w", tokenID, err)
	}
	return &md, nil
}

func (r *NFTReader) tokenURI(ctx context.Context, tokenID models.TokenID) (string, error) {
	id, ok := tokenID.BigInt()
	if !ok {
		return "", fmt.Errorf("token id %q is not numeric", tokenID)
	}
	data, err := r.abi.Pack("tokenURI", id)
	if err != nil {
		return "", fmt.Errorf("pack tokenURI: %w", err)
	}
	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("tokenURI(%s): %w", tokenID, err)
	}
	vals, err := r.abi.Unpack("tokenURI", out)
	if err != nil {
		return "", fmt.Errorf("unpack tokenURI(%s): %w", tokenID, err)
	}
	uri, ok := vals[0].(string)
	if !ok {
		return "", fmt.Errorf("tokenURI(%s): unexpected return type", tokenID)
	}
	return uri, nil
}
