package jobs

import (
	"context"
	"log"
	"math/big"
	"time"

	"github.com/proofcampus/backend/ledger"
)

// FundingJob is the out-of-band balance guard for the upload wallet.
// It runs on a schedule, never inline with a request: funding settles
// on-chain and takes seconds to minutes.
type FundingJob struct {
	Client     *ledger.Client
	MinBalance *big.Int
	TopUp      *big.Int
}

func (j *FundingJob) Run() {
	log.Println("Running job: TopUpLedgerWallet...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	balance, err := j.Client.EnsureFunded(ctx, j.MinBalance, j.TopUp)
	if err != nil {
		// A wallet that cannot be funded blocks every subsequent
		// anchor; keep this loud.
		log.Printf("🔥 Ledger wallet funding failed for %s: %v", j.Client.Address(), err)
		return
	}

	log.Printf("✅ Ledger wallet %s balance: %s wei", j.Client.Address(), balance.String())
}
