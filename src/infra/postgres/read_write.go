package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// ReadWriteClient pairs a replica pool for tree reads with a primary pool for syncs.
type ReadWriteClient struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
}

func NewReadWriteClient(read, write Config) (*ReadWriteClient, error) {
	readPool, err := NewPostgresClient(read)
	if err != nil {
		return nil, err
	}

	writePool, err := NewPostgresClient(write)
	if err != nil {
		readPool.Close()
		return nil, err
	}

	return &ReadWriteClient{readPool: readPool, writePool: writePool}, nil
}

func (rwc *ReadWriteClient) GetReadPool() *pgxpool.Pool {
	return rwc.readPool
}

func (rwc *ReadWriteClient) GetWritePool() *pgxpool.Pool {
	return rwc.writePool
}

func (rwc *ReadWriteClient) Close() {
	rwc.readPool.Close()
	rwc.writePool.Close()
}
