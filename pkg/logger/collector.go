package logger

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type CollectionConfig struct {
	MaxEntries int           // max unique entries kept before the oldest is dropped
	MaxAge     time.Duration // entries older than this are pruned on read
}

// AggregatedLogEntry is a deduplicated error-log record kept in memory for
// the health endpoint.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector aggregates recent error logs in memory. Identical messages are
// deduplicated by a hash of level+message+fields+caller and counted.
type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	order  []string
	mutex  sync.RWMutex
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.MaxEntries <= 0 {
		config.MaxEntries = 100
	}
	if config.MaxAge <= 0 {
		config.MaxAge = time.Hour
	}
	return &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
	}
}

func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := d.generateKey(level, message, fields, caller)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if entry, exists := d.logMap[key]; exists {
		entry.Count++
		entry.LastSeen = now
		return
	}

	if len(d.order) >= d.config.MaxEntries {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.logMap, oldest)
	}

	d.logMap[key] = &AggregatedLogEntry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	d.order = append(d.order, key)
}

// Recent returns the collected entries newer than MaxAge, oldest first.
func (d *LogCollector) Recent() []AggregatedLogEntry {
	cutoff := time.Now().Add(-d.config.MaxAge)

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	logs := make([]AggregatedLogEntry, 0, len(d.order))
	for _, key := range d.order {
		if entry, ok := d.logMap[key]; ok && entry.LastSeen.After(cutoff) {
			logs = append(logs, *entry)
		}
	}
	return logs
}

func (d *LogCollector) generateKey(level, message string, fields map[string]interface{}, caller string) string {
	data := struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{
		Level:   level,
		Message: message,
		Fields:  fields,
		Caller:  caller,
	}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

func (d *LogCollector) Close() {
	d.mutex.Lock()
	d.logMap = make(map[string]*AggregatedLogEntry)
	d.order = nil
	d.mutex.Unlock()
}
