package database

import (
	"fmt"
	"log"
	"sync"
	"time"

	"bazaar_back_end/internal/config"

	"github.com/gocql/gocql"
)

// ScyllaManager holds the session used by the order timeline.
type ScyllaManager struct {
	mu       sync.Mutex
	session  *gocql.Session
	keyspace string
	cfg      *config.Config
}

var Scylla *ScyllaManager

// InitScyllaDB creates the keyspace when missing and opens a session on it.
func InitScyllaDB(cfg *config.Config) error {
	sm := &ScyllaManager{keyspace: cfg.ScyllaKeyspace, cfg: cfg}

	if err := sm.ensureKeyspace(); err != nil {
		return err
	}
	if _, err := sm.Session(); err != nil {
		return err
	}

	Scylla = sm
	return nil
}

func (sm *ScyllaManager) cluster(keyspace string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(sm.cfg.ScyllaHosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	cluster.NumConns = 2
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	if sm.cfg.ScyllaUsername != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: sm.cfg.ScyllaUsername,
			Password: sm.cfg.ScyllaPassword,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

func (sm *ScyllaManager) ensureKeyspace() error {
	session, err := sm.cluster("").CreateSession()
	if err != nil {
		return fmt.Errorf("failed to reach scylla: %w", err)
	}
	defer session.Close()

	stmt := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
		WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`, sm.keyspace)
	if err := session.Query(stmt).Exec(); err != nil {
		return fmt.Errorf("failed to create keyspace %s: %w", sm.keyspace, err)
	}
	return nil
}

// Session returns the live session, reconnecting when the previous one went stale.
func (sm *ScyllaManager) Session() (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.session != nil {
		if err := sm.session.Query("SELECT now() FROM system.local").Exec(); err == nil {
			return sm.session, nil
		}
		sm.session.Close()
		sm.session = nil
	}

	session, err := sm.cluster(sm.keyspace).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session for %s: %w", sm.keyspace, err)
	}

	sm.session = session
	log.Printf("✅ ScyllaDB session opened for keyspace '%s'", sm.keyspace)
	return session, nil
}

// CloseScylla closes the session if one was opened.
func CloseScylla() {
	if Scylla == nil {
		return
	}
	Scylla.mu.Lock()
	defer Scylla.mu.Unlock()

	if Scylla.session != nil {
		Scylla.session.Close()
		Scylla.session = nil
		log.Printf("🔌 ScyllaDB session closed for keyspace '%s'", Scylla.keyspace)
	}
}
