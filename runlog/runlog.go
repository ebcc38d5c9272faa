// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runlog persists one row per RPC command a harness run issues, so a
// flaky run can be reconstructed and the exercised RPC surface asserted on.
package runlog

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	Enabled bool   `json:"enabled"`
	Backend string `json:"backend"`
	DSN     string `json:"dsn"`
}

// DBCommand is one issued RPC command.
type DBCommand struct {
	gorm.Model
	Node       string `gorm:"index"`
	Method     string `gorm:"index"`
	OK         bool
	Reason     string
	DurationMS int64
}

// Recorder satisfies rpc.Recorder. Persistence failures are logged and
// swallowed; recording must never fail the request it observes.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	db.AutoMigrate(&DBCommand{})

	return &Recorder{
		db: db,
	}
}

func NewRecorderFromConfigBytes(configBytes []byte) (*Recorder, error) {
	var conf Config
	err := json.Unmarshal(configBytes, &conf)
	if err != nil {
		return nil, err
	}
	return NewRecorderFromConfig(&conf)
}

func NewRecorderFromConfig(conf *Config) (*Recorder, error) {
	switch strings.ToLower(conf.Backend) {
	case "postgresql":
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  conf.DSN,
			PreferSimpleProtocol: true,
		}))
		log.Println("using postgresql as runlog backend")
		if err != nil {
			return nil, err
		}
		return NewRecorder(db), nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(conf.DSN), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return NewRecorder(db), nil
	default:
		db, err := gorm.Open(sqlite.Open("runlog.db"), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return NewRecorder(db), nil
	}
}

func (r *Recorder) Record(node string, method string, ok bool, reason string, took time.Duration) {
	cmd := &DBCommand{
		Node:       node,
		Method:     method,
		OK:         ok,
		Reason:     reason,
		DurationMS: took.Milliseconds(),
	}
	if err := r.db.Create(cmd).Error; err != nil {
		log.Printf("runlog: dropping command record: %v", err)
	}
}

// MethodCount reports how many commands of method were recorded; an empty
// method counts everything.
func (r *Recorder) MethodCount(method string) (int64, error) {
	var count int64
	tx := r.db.Model(&DBCommand{})
	if method != "" {
		tx = tx.Where("method = ?", method)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Failures returns every recorded command that did not succeed.
func (r *Recorder) Failures() ([]DBCommand, error) {
	var cmds []DBCommand
	if err := r.db.Where("ok = ?", false).Order("id asc").Find(&cmds).Error; err != nil {
		return nil, err
	}
	return cmds, nil
}
