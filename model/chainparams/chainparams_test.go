package chainparams

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/conf"
	"github.com/sheepman0/skeincoin/model/consensus"
)

func TestNetworkParams(t *testing.T) {
	// merged mining is out of reach on the production network and open
	// from genesis on the test networks
	assert.Equal(t, int32(1000000), MainNetParams.AuxPowStartHeight)
	assert.Equal(t, int32(0), TestNetParams.AuxPowStartHeight)
	assert.Equal(t, int32(0), RegTestParams.AuxPowStartHeight)

	assert.True(t, MainNetParams.RequireChainID)
	assert.False(t, TestNetParams.RequireChainID)

	for _, params := range []*consensus.Param{&MainNetParams, &TestNetParams, &RegTestParams} {
		assert.Equal(t, int32(consensus.AuxPowChainID), params.AuxPowChainID)
		assert.NotNil(t, params.HeaderHashFn)
		assert.NotNil(t, params.PowLimit)
		assert.True(t, params.PowLimit.Sign() > 0)
		assert.False(t, params.GenesisHash.IsNull())
	}
}

func TestSelectNet(t *testing.T) {
	old := *conf.Cfg
	defer func() {
		*conf.Cfg = old
		SelectNet()
	}()

	conf.Cfg.TestNet = false
	conf.Cfg.RegTest = false
	SelectNet()
	assert.Equal(t, &MainNetParams, ActiveNetParams)

	conf.Cfg.TestNet = true
	SelectNet()
	assert.Equal(t, &TestNetParams, ActiveNetParams)

	conf.Cfg.TestNet = false
	conf.Cfg.RegTest = true
	SelectNet()
	assert.Equal(t, &RegTestParams, ActiveNetParams)
}
