package generator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kaspanet/kaspa-tx-sdk/dagconfig"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/txscript"
	"github.com/kaspanet/kaspa-tx-sdk/util"
	"github.com/kaspanet/kaspa-tx-sdk/util/keys"
)

func testSchnorrAddress(t *testing.T, tag byte) *util.Address {
	t.Helper()
	pubKey := make([]byte, 32)
	pubKey[0] = tag
	pubKey[31] = tag
	address, err := util.NewAddressSchnorr(util.PrefixSimnet, pubKey)
	if err != nil {
		t.Fatalf("failed to build test address: %v", err)
	}
	return address
}

func testUTXOs(t *testing.T, address *util.Address, amounts ...uint64) []*UTXO {
	t.Helper()
	spk, err := util.PayToAddrScript(address)
	if err != nil {
		t.Fatalf("failed to build test script: %v", err)
	}
	utxos := make([]*UTXO, len(amounts))
	for i, amount := range amounts {
		txID := externalapi.DomainTransactionID{0xaa, byte(i), byte(i >> 8)}
		utxos[i] = &UTXO{
			Outpoint: externalapi.NewDomainOutpoint(&txID, 0),
			Entry:    externalapi.NewUTXOEntry(amount, spk, false, 100),
		}
	}
	return utxos
}

func drain(t *testing.T, g *Generator) []*externalapi.DomainTransaction {
	t.Helper()
	var transactions []*externalapi.DomainTransaction
	for {
		tx, err := g.GenerateTransaction()
		if err != nil {
			t.Fatalf("GenerateTransaction failed after %d transactions: %v", len(transactions), err)
		}
		if tx == nil {
			return transactions
		}
		transactions = append(transactions, tx)
		if len(transactions) > 1000 {
			t.Fatalf("generator did not terminate")
		}
	}
}

func TestSinglePayment(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	payee := testSchnorrAddress(t, 2)
	utxos := testUTXOs(t, change, 2_000_000_000, 2_000_000_000, 2_000_000_000)

	g, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(utxos),
		ChangeAddress: change,
		Payments:      []*PaymentOutput{{Address: payee, Amount: 5_000_000_000}},
	})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	transactions := drain(t, g)
	if len(transactions) != 1 {
		t.Fatalf("expected a single transaction, got %d", len(transactions))
	}
	tx := transactions[0]

	if len(tx.Outputs) != 2 {
		t.Fatalf("expected a payment output and a change output, got %d outputs", len(tx.Outputs))
	}
	payeeScript, err := util.PayToAddrScript(payee)
	if err != nil {
		t.Fatalf("failed to build payee script: %v", err)
	}
	if tx.Outputs[0].Value != 5_000_000_000 || !tx.Outputs[0].ScriptPublicKey.Equal(payeeScript) {
		t.Errorf("payment output is %d to %x", tx.Outputs[0].Value, tx.Outputs[0].ScriptPublicKey.Script)
	}

	summary := g.Summary()
	if summary.NumberOfTransactions != 1 {
		t.Errorf("summary reports %d transactions, want 1", summary.NumberOfTransactions)
	}
	if summary.AggregateInputAmount != 6_000_000_000 {
		t.Errorf("summary reports %d input sompi, want 6000000000", summary.AggregateInputAmount)
	}
	if summary.AggregateOutputAmount != 5_000_000_000 {
		t.Errorf("summary reports %d output sompi, want 5000000000", summary.AggregateOutputAmount)
	}
	if summary.AggregateFees != tx.Fee {
		t.Errorf("summary fees %d do not match the transaction fee %d", summary.AggregateFees, tx.Fee)
	}
	wantChange := 6_000_000_000 - 5_000_000_000 - tx.Fee
	if summary.FinalChangeAmount != wantChange {
		t.Errorf("summary change %d, want %d", summary.FinalChangeAmount, wantChange)
	}
	if tx.Outputs[1].Value != wantChange {
		t.Errorf("change output carries %d, want %d", tx.Outputs[1].Value, wantChange)
	}
	if !summary.FinalTransactionID.Equal(consensushashing.TransactionID(tx)) {
		t.Errorf("summary final transaction id does not match the emitted transaction")
	}

	// Every input must arrive with its resolved entry attached and an
	// empty signature script.
	for i, input := range tx.Inputs {
		if input.UTXOEntry == nil {
			t.Errorf("input %d has no resolved UTXO entry", i)
		}
		if len(input.SignatureScript) != 0 {
			t.Errorf("input %d is not ready to sign", i)
		}
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	utxos := testUTXOs(t, change, 1_000_000_000, 2_000_000_000, 3_000_000_000)

	g, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(utxos),
		ChangeAddress: change,
	})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	transactions := drain(t, g)
	if len(transactions) != 1 {
		t.Fatalf("expected a single sweep transaction, got %d", len(transactions))
	}
	tx := transactions[0]
	if len(tx.Inputs) != 3 || len(tx.Outputs) != 1 {
		t.Fatalf("sweep shape is %d inputs, %d outputs", len(tx.Inputs), len(tx.Outputs))
	}
	want := uint64(6_000_000_000) - tx.Fee
	if tx.Outputs[0].Value != want {
		t.Errorf("sweep output carries %d, want %d", tx.Outputs[0].Value, want)
	}
	summary := g.Summary()
	if summary.AggregateOutputAmount != want || summary.FinalChangeAmount != want {
		t.Errorf("sweep summary output %d / change %d, want %d for both",
			summary.AggregateOutputAmount, summary.FinalChangeAmount, want)
	}
}

func TestChainedGeneration(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	payee := testSchnorrAddress(t, 2)

	amounts := make([]uint64, 120)
	for i := range amounts {
		amounts[i] = 100_000_000
	}
	utxos := testUTXOs(t, change, amounts...)

	g, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(utxos),
		ChangeAddress: change,
		Payments:      []*PaymentOutput{{Address: payee, Amount: 11_000_000_000}},
	})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	transactions := drain(t, g)
	if len(transactions) < 2 {
		t.Fatalf("expected a chained sequence, got %d transactions", len(transactions))
	}

	changeScript, err := util.PayToAddrScript(change)
	if err != nil {
		t.Fatalf("failed to build change script: %v", err)
	}
	for i, tx := range transactions[:len(transactions)-1] {
		if len(tx.Outputs) != 1 {
			t.Errorf("intermediate transaction %d has %d outputs, want 1", i, len(tx.Outputs))
		}
		if !tx.Outputs[0].ScriptPublicKey.Equal(changeScript) {
			t.Errorf("intermediate transaction %d does not pay the change address", i)
		}
	}

	// Each transaction after the first must spend the previous one's
	// merge output.
	for i := 1; i < len(transactions); i++ {
		prevID := consensushashing.TransactionID(transactions[i-1])
		first := transactions[i].Inputs[0].PreviousOutpoint
		if !first.TransactionID.Equal(prevID) || first.Index != 0 {
			t.Errorf("transaction %d does not chain off its predecessor", i)
		}
	}

	final := transactions[len(transactions)-1]
	if final.Outputs[0].Value != 11_000_000_000 {
		t.Errorf("final payment output carries %d, want 11000000000", final.Outputs[0].Value)
	}

	summary := g.Summary()
	if summary.NumberOfTransactions != len(transactions) {
		t.Errorf("summary reports %d transactions, want %d", summary.NumberOfTransactions, len(transactions))
	}
	var totalFees uint64
	for _, tx := range transactions {
		totalFees += tx.Fee
	}
	if summary.AggregateFees != totalFees {
		t.Errorf("summary fees %d, want %d", summary.AggregateFees, totalFees)
	}
	if !summary.FinalTransactionID.Equal(consensushashing.TransactionID(final)) {
		t.Errorf("summary final transaction id does not match the last emitted transaction")
	}

	// Value conservation across the whole chain: everything that entered
	// left as payments, fees, or change.
	if summary.AggregateInputAmount !=
		summary.AggregateOutputAmount+summary.AggregateFees+summary.FinalChangeAmount {
		t.Errorf("chain does not conserve value: %d in vs %d out + %d fees + %d change",
			summary.AggregateInputAmount, summary.AggregateOutputAmount,
			summary.AggregateFees, summary.FinalChangeAmount)
	}

	// Mass stays under the consensus ceiling on every emitted transaction.
	params := dagconfig.SimnetParams
	for i, tx := range transactions {
		if tx.Mass > params.MaximumStandardTransactionMass {
			t.Errorf("transaction %d mass %d exceeds the ceiling", i, tx.Mass)
		}
	}
}

func TestPriorityUTXOsPinnedToFinal(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	payee := testSchnorrAddress(t, 2)

	amounts := make([]uint64, 120)
	for i := range amounts {
		amounts[i] = 100_000_000
	}
	utxos := testUTXOs(t, change, amounts...)

	priorityTxID := externalapi.DomainTransactionID{0xbb}
	priority := &UTXO{
		Outpoint: externalapi.NewDomainOutpoint(&priorityTxID, 7),
		Entry:    testUTXOs(t, change, 500_000_000)[0].Entry,
	}

	g, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(utxos),
		PriorityUTXOs: []*UTXO{priority},
		ChangeAddress: change,
		Payments:      []*PaymentOutput{{Address: payee, Amount: 11_000_000_000}},
	})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	transactions := drain(t, g)
	if len(transactions) < 2 {
		t.Fatalf("expected a chained sequence, got %d transactions", len(transactions))
	}

	spendsPriority := func(tx *externalapi.DomainTransaction) bool {
		for _, input := range tx.Inputs {
			if input.PreviousOutpoint.Equal(priority.Outpoint) {
				return true
			}
		}
		return false
	}
	for i, tx := range transactions[:len(transactions)-1] {
		if spendsPriority(tx) {
			t.Errorf("intermediate transaction %d spends a priority UTXO", i)
		}
	}
	if !spendsPriority(transactions[len(transactions)-1]) {
		t.Errorf("the final transaction does not spend the priority UTXO")
	}
}

func TestInsufficientFunds(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	payee := testSchnorrAddress(t, 2)
	utxos := testUTXOs(t, change, 1_000_000, 1_000_000)

	g, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(utxos),
		ChangeAddress: change,
		Payments:      []*PaymentOutput{{Address: payee, Amount: 1_000_000_000}},
	})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	_, err = g.GenerateTransaction()
	ruleErr, ok := err.(RuleError)
	if !ok || ruleErr.ErrorCode != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestStorageMassExceedsMaximum(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	payee := testSchnorrAddress(t, 2)
	utxos := testUTXOs(t, change, 100_000_000, 100_000_000, 100_000_000)

	g, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(utxos),
		ChangeAddress: change,
		Payments:      []*PaymentOutput{{Address: payee, Amount: 9_569_251}},
	})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	var lastErr error
	for i := 0; i < 10; i++ {
		tx, err := g.GenerateTransaction()
		if err != nil {
			lastErr = err
			break
		}
		if tx == nil {
			t.Fatalf("a dust-sized payment from much larger UTXOs unexpectedly succeeded")
		}
	}
	ruleErr, ok := lastErr.(RuleError)
	if !ok || ruleErr.ErrorCode != ErrStorageMassExceedsMaximum {
		t.Fatalf("expected ErrStorageMassExceedsMaximum, got %v", lastErr)
	}
	if !strings.Contains(ruleErr.Error(), "Storage mass exceeds maximum") {
		t.Errorf("error %q does not carry the expected reason", ruleErr.Error())
	}
}

func TestImmatureCoinbaseUTXOsAreSkipped(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	payee := testSchnorrAddress(t, 2)

	utxos := testUTXOs(t, change, 2_000_000_000, 2_000_000_000, 2_000_000_000)
	// The first UTXO is a freshly mined coinbase: at DAA score 150 it is
	// still 70 score units short of maturity.
	utxos[0].Entry = externalapi.NewUTXOEntry(utxos[0].Entry.Amount, utxos[0].Entry.ScriptPublicKey, true, 120)

	g, err := New(&Settings{
		NetworkID:       dagconfig.NewSimnetNetworkID(),
		Source:          NewSliceSource(utxos),
		ChangeAddress:   change,
		Payments:        []*PaymentOutput{{Address: payee, Amount: 3_000_000_000}},
		CurrentDAAScore: 150,
	})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	transactions := drain(t, g)
	if len(transactions) != 1 {
		t.Fatalf("expected a single transaction, got %d", len(transactions))
	}
	for _, input := range transactions[0].Inputs {
		if input.PreviousOutpoint.Equal(utxos[0].Outpoint) {
			t.Errorf("an immature coinbase UTXO was spent")
		}
	}
	if g.Summary().AggregateInputAmount != 4_000_000_000 {
		t.Errorf("summary reports %d input sompi, want 4000000000", g.Summary().AggregateInputAmount)
	}
}

func TestAbsolutePriorityFee(t *testing.T) {
	t.Parallel()

	change := testSchnorrAddress(t, 1)
	payee := testSchnorrAddress(t, 2)
	const priorityFee = 1_000_000

	baseline := func(policy FeePolicy) *externalapi.DomainTransaction {
		utxos := testUTXOs(t, change, 2_000_000_000, 2_000_000_000, 2_000_000_000)
		g, err := New(&Settings{
			NetworkID:     dagconfig.NewSimnetNetworkID(),
			Source:        NewSliceSource(utxos),
			ChangeAddress: change,
			Payments:      []*PaymentOutput{{Address: payee, Amount: 5_000_000_000}},
			PriorityFee:   policy,
		})
		if err != nil {
			t.Fatalf("failed to create generator: %v", err)
		}
		transactions := drain(t, g)
		if len(transactions) != 1 {
			t.Fatalf("expected a single transaction, got %d", len(transactions))
		}
		return transactions[0]
	}

	without := baseline(nil)
	with := baseline(SenderPaysFee{Fee: priorityFee})
	if with.Fee != without.Fee+priorityFee {
		t.Errorf("priority fee not applied: %d vs %d + %d", with.Fee, without.Fee, priorityFee)
	}
}

func TestCommitAndRevealFlow(t *testing.T) {
	t.Parallel()

	sender, err := keys.GenerateSchnorrKeypair()
	if err != nil {
		t.Fatalf("failed to generate sender keypair: %v", err)
	}
	senderPubKey, err := sender.PublicKeyBytes()
	if err != nil {
		t.Fatalf("failed to serialize sender public key: %v", err)
	}
	senderAddress, err := util.NewAddressSchnorr(util.PrefixSimnet, senderPubKey)
	if err != nil {
		t.Fatalf("failed to build sender address: %v", err)
	}
	payee := testSchnorrAddress(t, 9)

	redeemScript, err := txscript.NewScriptBuilder().
		AddData(senderPubKey).
		AddOp(txscript.OpCheckSig).
		Script()
	if err != nil {
		t.Fatalf("failed to build redeem script: %v", err)
	}
	commitAddress, err := util.NewAddressScriptHash(util.PrefixSimnet, redeemScript)
	if err != nil {
		t.Fatalf("failed to build commit address: %v", err)
	}

	const commitAmount = 300_000_000

	// Commit: fund the P2SH output from the sender's UTXOs.
	commitGen, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(testUTXOs(t, senderAddress, 1_000_000_000)),
		ChangeAddress: senderAddress,
		Payments:      []*PaymentOutput{{Address: commitAddress, Amount: commitAmount}},
	})
	if err != nil {
		t.Fatalf("failed to create commit generator: %v", err)
	}
	commitTxs := drain(t, commitGen)
	if len(commitTxs) != 1 {
		t.Fatalf("commit produced %d transactions, want 1", len(commitTxs))
	}
	commitTx := commitTxs[0]
	if commitTx.Outputs[0].Value != commitAmount {
		t.Fatalf("commit output carries %d, want %d", commitTx.Outputs[0].Value, commitAmount)
	}

	signPubKeyInputs := func(tx *externalapi.DomainTransaction) {
		reusedValues := &consensushashing.SighashReusedValues{}
		for i, input := range tx.Inputs {
			if _, isP2SH := txscript.ExtractScriptHash(input.UTXOEntry.ScriptPublicKey.Script); isP2SH {
				continue
			}
			sigScript, err := txscript.SignatureScriptForPubKey(tx, i, externalapi.SigHashAll, sender, reusedValues)
			if err != nil {
				t.Fatalf("failed to sign input %d: %v", i, err)
			}
			input.SignatureScript = sigScript
		}
	}
	verifyAllInputs := func(tx *externalapi.DomainTransaction) {
		for i := range tx.Inputs {
			vm, err := txscript.NewEngine(tx.Inputs[i].UTXOEntry.ScriptPublicKey, tx, i, nil)
			if err != nil {
				t.Fatalf("failed to create engine for input %d: %v", i, err)
			}
			if err := vm.Execute(); err != nil {
				t.Fatalf("input %d did not verify: %v", i, err)
			}
		}
	}

	signPubKeyInputs(commitTx)
	verifyAllInputs(commitTx)

	// Reveal: spend the P2SH output (pinned as a priority UTXO) together
	// with more sender funds, paying the payee.
	commitScript, err := util.PayToAddrScript(commitAddress)
	if err != nil {
		t.Fatalf("failed to build commit script: %v", err)
	}
	commitUTXO := &UTXO{
		Outpoint: externalapi.NewDomainOutpoint(consensushashing.TransactionID(commitTx), 0),
		Entry:    externalapi.NewUTXOEntry(commitAmount, commitScript, false, 200),
	}

	revealGen, err := New(&Settings{
		NetworkID:     dagconfig.NewSimnetNetworkID(),
		Source:        NewSliceSource(testUTXOs(t, senderAddress, 1_000_000_000)),
		PriorityUTXOs: []*UTXO{commitUTXO},
		ChangeAddress: senderAddress,
		Payments:      []*PaymentOutput{{Address: payee, Amount: 350_000_000}},
	})
	if err != nil {
		t.Fatalf("failed to create reveal generator: %v", err)
	}
	revealTxs := drain(t, revealGen)
	if len(revealTxs) != 1 {
		t.Fatalf("reveal produced %d transactions, want 1", len(revealTxs))
	}
	revealTx := revealTxs[0]

	p2shIndex := -1
	for i, input := range revealTx.Inputs {
		if input.PreviousOutpoint.Equal(commitUTXO.Outpoint) {
			p2shIndex = i
		}
	}
	if p2shIndex < 0 {
		t.Fatalf("reveal transaction does not spend the commit output")
	}

	signPubKeyInputs(revealTx)

	reusedValues := &consensushashing.SighashReusedValues{}
	rawSig, err := txscript.RawTxInSignature(revealTx, p2shIndex, externalapi.SigHashAll, sender, reusedValues)
	if err != nil {
		t.Fatalf("failed to sign the P2SH input: %v", err)
	}
	p2shSigScript, err := txscript.NewScriptBuilder().AddData(rawSig).AddData(redeemScript).Script()
	if err != nil {
		t.Fatalf("failed to build the P2SH signature script: %v", err)
	}
	revealTx.Inputs[p2shIndex].SignatureScript = p2shSigScript

	if !bytes.HasSuffix(p2shSigScript, redeemScript) {
		t.Errorf("the P2SH signature script does not end with the pushed redeem script")
	}
	verifyAllInputs(revealTx)
}
