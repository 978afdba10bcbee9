package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sheepman0/skeincoin/conf"
	"github.com/sheepman0/skeincoin/log"
	"github.com/sheepman0/skeincoin/model/chainparams"
	"github.com/sheepman0/skeincoin/model/utxo"
	"github.com/sheepman0/skeincoin/persist/db"
)

func nodeMain() error {
	cfg, err := conf.Load(os.Args[1:])
	if err != nil {
		return err
	}
	chainparams.SelectNet()

	dataDir := filepath.Join(cfg.DataDir, chainparams.ActiveNetParams.Name)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return err
	}
	if err := log.Init(dataDir, cfg.LogLevel); err != nil {
		return err
	}
	log.Info("starting skeincoind on network %s, datadir %s",
		chainparams.ActiveNetParams.Name, dataDir)

	interrupt := interruptListener()
	if interruptRequested(interrupt) {
		return nil
	}

	coinsDB, err := utxo.NewCoinsDB(&db.DBOption{
		FilePath:  filepath.Join(dataDir, "chainstate"),
		CacheSize: cfg.UtxoCacheSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing coins database")
		coinsDB.Close()
	}()

	if best, err := coinsDB.GetBestBlock(); err == nil {
		log.Info("best block on disk: %s", best)
	} else {
		log.Info("fresh chainstate, no best block recorded")
	}

	<-interrupt
	return nil
}

func main() {
	if err := nodeMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
