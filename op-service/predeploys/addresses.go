package predeploys

import "github.com/ethereum/go-ethereum/common"

const (
	L1Block    = "0x4200000000000000000000000000000000000015"
	Multicall3 = "0xcA11bde05977b3631167028862bE2a173976CA11"
)

var (
	// L1BlockAddr is the OP-Stack predeploy that mirrors the latest known L1 block.
	L1BlockAddr = common.HexToAddress(L1Block)
	// Multicall3Addr is the deterministic Multicall3 deployment, at the same address on every chain.
	Multicall3Addr = common.HexToAddress(Multicall3)
)
