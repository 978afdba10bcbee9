package chainparams

import (
	"math/big"

	"github.com/sheepman0/skeincoin/conf"
	"github.com/sheepman0/skeincoin/model/consensus"
	"github.com/sheepman0/skeincoin/util"
)

var (
	// mainPowLimit is ~uint256(0) >> 32.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 224), big.NewInt(1))

	// regressionPowLimit leaves a single zero bit so any serious miner finds
	// blocks instantly.
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
)

var MainNetParams = consensus.Param{
	Name:                   "main",
	GenesisHash:            util.HashFromString("000000000062b72c5e2ceb45fbc8587e807c155b0da735e6483dfba2f20d9271"),
	PowLimit:               mainPowLimit,
	PowLimitBits:           0x1d00ffff,
	AuxPowStartHeight:      1000000,
	AuxPowChainID:          consensus.AuxPowChainID,
	RequireChainID:         true,
	HeaderHashFn:           util.DoubleSha256Hash,
	SubsidyHalvingInterval: 210000,
}

var TestNetParams = consensus.Param{
	Name:                   "test",
	GenesisHash:            util.HashFromString("00000007199508e34a9ff81e6ec0c477a4cccff2a4767a8eee39c11db367b008"),
	PowLimit:               mainPowLimit,
	PowLimitBits:           0x1d07fff8,
	AuxPowStartHeight:      0,
	AuxPowChainID:          consensus.AuxPowChainID,
	RequireChainID:         false,
	HeaderHashFn:           util.DoubleSha256Hash,
	SubsidyHalvingInterval: 210000,
}

var RegTestParams = consensus.Param{
	Name:                   "regtest",
	GenesisHash:            util.HashFromString("0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206"),
	PowLimit:               regressionPowLimit,
	PowLimitBits:           0x207fffff,
	AuxPowStartHeight:      0,
	AuxPowChainID:          consensus.AuxPowChainID,
	RequireChainID:         false,
	HeaderHashFn:           util.DoubleSha256Hash,
	SubsidyHalvingInterval: 150,
}

// ActiveNetParams is selected once at startup from the configuration and
// treated as read-only afterwards.
var ActiveNetParams = &MainNetParams

func SelectNet() {
	switch {
	case conf.Cfg.RegTest:
		ActiveNetParams = &RegTestParams
	case conf.Cfg.TestNet:
		ActiveNetParams = &TestNetParams
	default:
		ActiveNetParams = &MainNetParams
	}
}
