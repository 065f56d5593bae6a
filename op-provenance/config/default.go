package config

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-service/predeploys"
)

var (
	OptimismSequencer        = common.HexToAddress("0xAAAA45d9549EDA09E70937013520214382Ffc4A2")
	BaseSequencer            = common.HexToAddress("0xAf6E19BE0F9cE7f8afd49a1824851023A8249e8a")
	LineaSequencer           = common.HexToAddress("0x8f81e2e3f8b46467523463835f965ffe476e1c9e")
	OptimismSepoliaSequencer = common.HexToAddress("0x57CACBB0d30b01eb2462e5dC940c161aff3230D3")
	BaseSepoliaSequencer     = common.HexToAddress("0xb830b99c95Ea32300039624Cb567d324D4b1D83C")
	LineaSepoliaSequencer    = common.HexToAddress("0xa27342f1b74c0cfb2cda74bac1628d0c1a9752f2")

	OptimismPortal        = common.HexToAddress("0xbEb5Fc579115071764c7423A4f12eDde41f106Ed")
	OptimismSepoliaPortal = common.HexToAddress("0x16Fc5058F25648194471939df75CF27A2fdC48BC")
	BasePortal            = common.HexToAddress("0x49048044D57e1C92A77f79988d21Fa8fAF74E97e")
	BaseSepoliaPortal     = common.HexToAddress("0x49f53e41452C74589E85cA1677426Ba426459e85")

	OptimismDisputeGameFactory        = common.HexToAddress("0xe5965Ab5962eDc7477C8520243A95517CD252fA9")
	OptimismSepoliaDisputeGameFactory = common.HexToAddress("0x05F9613aDB30026FFd634f38e5C4dFd30a197Fa1")
	BaseDisputeGameFactory            = common.HexToAddress("0x43edB88C4B80fDD2AdFF2412A7BebF9dF42cB40e")
	BaseSepoliaDisputeGameFactory     = common.HexToAddress("0xd6E6dBf4F7EA0ac412fD8b65ED297e64BB7a06E1")

	LineaMessageService        = common.HexToAddress("0xd19d4B5d358258f05D7B411E21A1460D11B0876F")
	LineaSepoliaMessageService = common.HexToAddress("0xB218f8A4Bc926cF1cA7b3423c154a0D627Bdb7E5")
)

const (
	OptimismSequencerURL = "https://optimism.operationsolarstorm.org/latest"
	BaseSequencerURL     = "https://base.operationsolarstorm.org/latest"
)

// Default returns the configuration of the deployed system, serving mainnet chains.
func Default() *Config {
	return &Config{
		Network: NetworkMainnet,
		Chains: map[provenance.ChainID]*ChainConfig{
			provenance.EthereumMainnet: {
				ReorgDepth:           DefaultReorgDepth,
				L1AnchorChain:        provenance.OptimismMainnet,
				SecondaryAnchorChain: provenance.BaseMainnet,
			},
			provenance.OptimismMainnet: {
				Sequencer:          OptimismSequencer,
				Portal:             OptimismPortal,
				DisputeGameFactory: OptimismDisputeGameFactory,
				ReorgDepth:         DefaultReorgDepth,
				SequencerURL:       OptimismSequencerURL,
			},
			provenance.BaseMainnet: {
				Sequencer:          BaseSequencer,
				Portal:             BasePortal,
				DisputeGameFactory: BaseDisputeGameFactory,
				ReorgDepth:         DefaultReorgDepth,
				SequencerURL:       BaseSequencerURL,
			},
			provenance.LineaMainnet: {
				Sequencer:      LineaSequencer,
				MessageService: LineaMessageService,
				ReorgDepth:     DefaultReorgDepth,
			},
			provenance.EthereumSepolia: {
				ReorgDepth:           DefaultReorgDepth,
				L1AnchorChain:        provenance.OptimismSepolia,
				SecondaryAnchorChain: provenance.BaseSepolia,
			},
			provenance.OptimismSepolia: {
				Sequencer:          OptimismSepoliaSequencer,
				Portal:             OptimismSepoliaPortal,
				DisputeGameFactory: OptimismSepoliaDisputeGameFactory,
				ReorgDepth:         DefaultReorgDepth,
			},
			provenance.BaseSepolia: {
				Sequencer:          BaseSepoliaSequencer,
				Portal:             BaseSepoliaPortal,
				DisputeGameFactory: BaseSepoliaDisputeGameFactory,
				ReorgDepth:         DefaultReorgDepth,
			},
			provenance.LineaSepolia: {
				Sequencer:      LineaSepoliaSequencer,
				MessageService: LineaSepoliaMessageService,
				ReorgDepth:     DefaultReorgDepth,
			},
		},
		Multicall:          predeploys.Multicall3Addr,
		ProofDataSelector:  ProofDataSelector,
		L1BlockPredeploy:   predeploys.L1BlockAddr,
		ProofMaturityGrace: DefaultProofMaturityGrace,
		Concurrency:        4,
	}
}
