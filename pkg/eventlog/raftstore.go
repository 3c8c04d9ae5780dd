package eventlog

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/cuemby/bistro/pkg/log"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// Config configures a RaftStore.
type Config struct {
	// NodeID is this node's Raft server id.
	NodeID string
	// BindAddr is the address Raft uses for its (here, loopback, single
	// node) transport.
	BindAddr string
	// DataDir holds the event log's BoltDB file, Raft's log/stable
	// stores, and its snapshots.
	DataDir string
	// ApplyTimeout bounds how long a single Raft Apply may take.
	ApplyTimeout time.Duration
}

// RaftStore implements Store by routing every mutation through a
// single-node Raft group's FSM.Apply (fsm.go), and reading the embedded
// BoltDB directly for ListEvents/LatestEvent. Spec §9's open question about
// where the OCC version probe happens is moot here: the probe and the
// append both happen inside the same serialized Apply call.
type RaftStore struct {
	raft         *raft.Raft
	fsm          *eventlogFSM
	bolt         *boltStore
	applyTimeout time.Duration
}

// NewRaftStore creates and bootstraps a single-node Raft group backed by an
// embedded BoltDB event log, grounded on manager.Manager.Bootstrap.
// Multi-node clustering (Join/AddVoter) is intentionally not carried: spec
// §1 excludes multi-log federation, and this spec's log is one log.
func NewRaftStore(cfg Config) (*RaftStore, error) {
	if cfg.ApplyTimeout == 0 {
		cfg.ApplyTimeout = 5 * time.Second
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create event log data dir: %w", err)
	}

	bolt, err := openBoltStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	fsm := newEventlogFSM(bolt)

	raftConfig := raft.DefaultConfig()
	raftConfig.LocalID = raft.ServerID(cfg.NodeID)

	addr, err := net.ResolveTCPAddr("tcp", cfg.BindAddr)
	if err != nil {
		bolt.Close()
		return nil, fmt.Errorf("resolve raft bind address: %w", err)
	}

	transport, err := raft.NewTCPTransport(cfg.BindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		bolt.Close()
		return nil, fmt.Errorf("create raft transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(cfg.DataDir, 2, os.Stderr)
	if err != nil {
		bolt.Close()
		return nil, fmt.Errorf("create raft snapshot store: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-log.db"))
	if err != nil {
		bolt.Close()
		return nil, fmt.Errorf("create raft log store: %w", err)
	}

	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-stable.db"))
	if err != nil {
		bolt.Close()
		return nil, fmt.Errorf("create raft stable store: %w", err)
	}

	r, err := raft.NewRaft(raftConfig, fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		bolt.Close()
		return nil, fmt.Errorf("create raft instance: %w", err)
	}

	hasState, err := raft.HasExistingState(logStore, stableStore, snapshotStore)
	if err != nil {
		bolt.Close()
		return nil, fmt.Errorf("inspect raft state: %w", err)
	}
	if !hasState {
		future := r.BootstrapCluster(raft.Configuration{
			Servers: []raft.Server{{ID: raftConfig.LocalID, Address: transport.LocalAddr()}},
		})
		if err := future.Error(); err != nil {
			bolt.Close()
			return nil, fmt.Errorf("bootstrap raft cluster: %w", err)
		}
	}

	rs := &RaftStore{
		raft:         r,
		fsm:          fsm,
		bolt:         bolt,
		applyTimeout: cfg.ApplyTimeout,
	}

	if err := rs.awaitLeadership(10 * time.Second); err != nil {
		bolt.Close()
		return nil, err
	}

	return rs, nil
}

func (s *RaftStore) awaitLeadership(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.raft.State() == raft.Leader {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("%w: raft did not elect a leader within %s", ErrStoreUnavailable, timeout)
}

func (s *RaftStore) apply(op string, payload interface{}) (interface{}, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s command: %w", op, err)
	}
	cmdData, err := json.Marshal(Command{Op: op, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", op, err)
	}

	future := s.raft.Apply(cmdData, s.applyTimeout)
	if err := future.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return future.Response(), nil
}

func (s *RaftStore) RegisterDeciderEvent(decider, eventName string) error {
	resp, err := s.apply(opRegisterDeciderEvent, registerPayload{Decider: decider, EventName: eventName})
	if err != nil {
		return err
	}
	return resp.(simpleResponse).Err
}

func (s *RaftStore) CreateSubscription(sub Subscription) error {
	resp, err := s.apply(opCreateSubscription, sub)
	if err != nil {
		return err
	}
	return resp.(simpleResponse).Err
}

func (s *RaftStore) ListEvents(decider, deciderID string) ([]Event, error) {
	return s.bolt.listEvents(decider, deciderID)
}

func (s *RaftStore) LatestEvent(decider, deciderID string) (Event, bool, error) {
	return s.bolt.latestEvent(decider, deciderID)
}

func (s *RaftStore) AppendEvents(batch []NewEvent) ([]Event, error) {
	resp, err := s.apply(opAppendEvents, batch)
	if err != nil {
		return nil, err
	}
	ar := resp.(appendResponse)
	if ar.Err != nil {
		return nil, ar.Err
	}
	return ar.Events, nil
}

func (s *RaftStore) NextEvent(subscriber string) (Event, bool, error) {
	resp, err := s.apply(opNextEvent, nextEventPayload{Subscriber: subscriber})
	if err != nil {
		return Event{}, false, err
	}
	nr := resp.(nextEventResponse)
	if nr.Err != nil {
		return Event{}, false, nr.Err
	}
	return nr.Event, nr.Ok, nil
}

func (s *RaftStore) Ack(subscriber, decider, deciderID string, offset uint64) error {
	resp, err := s.apply(opAck, ackPayload{Subscriber: subscriber, Decider: decider, DeciderID: deciderID, Offset: offset})
	if err != nil {
		return err
	}
	return resp.(simpleResponse).Err
}

func (s *RaftStore) Nack(subscriber, decider, deciderID string) error {
	resp, err := s.apply(opNack, nackPayload{Subscriber: subscriber, Decider: decider, DeciderID: deciderID})
	if err != nil {
		return err
	}
	return resp.(simpleResponse).Err
}

// IsLeader reports whether this node currently holds Raft leadership.
// Single-node groups elect themselves immediately on bootstrap, so this
// is mostly useful as a liveness signal rather than for routing.
func (s *RaftStore) IsLeader() bool {
	return s.raft.State() == raft.Leader
}

func (s *RaftStore) Close() error {
	future := s.raft.Shutdown()
	if err := future.Error(); err != nil {
		log.WithComponent("eventlog").Warn().Err(err).Msg("raft shutdown returned an error")
	}
	return s.bolt.Close()
}

var _ Store = (*RaftStore)(nil)
