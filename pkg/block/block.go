// Package block defines the payloads the writer persists: a block with its
// transactions and events, as attached by the upstream processor.
package block

import (
	"errors"
)

var (
	errMissingBlockID   = errors.New("block_id is required")
	errMissingBlockTime = errors.New("block_time is required")
)

// Block is a block header. Uses meddler tags for automatic struct-to-db mapping.
type Block struct {
	ID                   int64     `meddler:"id,pk" json:"-"`
	NetworkID            int64     `meddler:"network_id" json:"-"`
	Height               Uint64    `meddler:"block_height" json:"block_height"`
	BlockID              string    `meddler:"block_id" json:"block_id"`
	ParentID             string    `meddler:"parent_id,zeroisnull" json:"parent_id"`
	BlockTime            Timestamp `meddler:"block_time" json:"block_time"`
	ParentVoterSignature string    `meddler:"parent_voter_signature,zeroisnull" json:"parent_voter_signature"`
	RowTime              int64     `meddler:"row_time" json:"-"`
}

// Validate checks the fields the writer relies on.
func (b *Block) Validate() error {
	if b.BlockID == "" {
		return errMissingBlockID
	}
	if b.BlockTime == 0 {
		return errMissingBlockTime
	}
	return nil
}

// Transaction is an executed transaction of a block.
type Transaction struct {
	ID                 int64  `meddler:"id,pk" json:"-"`
	NetworkID          int64  `meddler:"network_id" json:"-"`
	BlockHeight        Uint64 `meddler:"block_height" json:"block_height"`
	BlockID            string `meddler:"block_id" json:"block_id"`
	TransactionID      string `meddler:"transaction_id" json:"transaction_id"`
	Script             string `meddler:"script,zeroisnull" json:"script"`
	Arguments          string `meddler:"arguments,zeroisnull" json:"arguments"`
	ReferenceBlockID   string `meddler:"reference_block_id,zeroisnull" json:"reference_block_id"`
	GasLimit           Uint64 `meddler:"gas_limit" json:"gas_limit"`
	Payer              string `meddler:"payer,zeroisnull" json:"payer"`
	ProposalKey        string `meddler:"proposal_key,zeroisnull" json:"proposal_key"`
	Authorizers        string `meddler:"authorizers,zeroisnull" json:"authorizers"`
	PayloadSignatures  string `meddler:"payload_signatures,zeroisnull" json:"payload_signatures"`
	EnvelopeSignatures string `meddler:"envelope_signatures,zeroisnull" json:"envelope_signatures"`
	Execution          string `meddler:"execution,zeroisnull" json:"execution"`
	Status             string `meddler:"status,zeroisnull" json:"status"`
	StatusCode         Uint64 `meddler:"status_code" json:"status_code"`
	ErrorMessage       string `meddler:"error_message,zeroisnull" json:"error_message"`
	ComputationUsed    Uint64 `meddler:"computation_used" json:"computation_used"`
	RowTime            int64  `meddler:"row_time" json:"-"`
}

// Event is an event emitted by a transaction.
type Event struct {
	ID               int64  `meddler:"id,pk" json:"-"`
	NetworkID        int64  `meddler:"network_id" json:"-"`
	BlockHeight      Uint64 `meddler:"block_height" json:"block_height"`
	BlockID          string `meddler:"block_id" json:"block_id"`
	TransactionID    string `meddler:"transaction_id" json:"transaction_id"`
	TransactionIndex Uint64 `meddler:"transaction_index" json:"transaction_index"`
	EventIndex       Uint64 `meddler:"event_index" json:"event_index"`
	Type             string `meddler:"type" json:"type"`
	Payload          string `meddler:"payload,zeroisnull" json:"payload"`
	RowTime          int64  `meddler:"row_time" json:"-"`
}

// WriterMessage is the body of the writer queue: a task message with the
// fetched payload attached.
type WriterMessage struct {
	EntityID     Uint64        `json:"entity_id"`
	CollectUID   string        `json:"collect_uid"`
	Block        *Block        `json:"block"`
	Transactions []Transaction `json:"transactions"`
	Events       []Event       `json:"events"`
}
