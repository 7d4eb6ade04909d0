package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// InsertMatch records a match and its participant identity map. Uses INSERT
// OR REPLACE so re-running the pipeline stays idempotent.
func (db *DB) InsertMatch(m *model.MatchEvents) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(match_id, duration_ms, queue, fetched_at)
		VALUES (?, ?, ?, ?)`,
		m.MatchID, m.DurationMS, m.Queue, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.MatchID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO participants(match_id, participant_id, champion)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pid, champ := range m.Champions {
		if _, err := stmt.Exec(m.MatchID, pid, champ); err != nil {
			return fmt.Errorf("insert participant %d: %w", pid, err)
		}
	}
	return tx.Commit()
}

// InsertWindows bulk-inserts a match's window features in a transaction,
// replacing any previous derivation for the same match.
func (db *DB) InsertWindows(windows []model.Window) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO window_features(
			match_id, window_index, start_ms, end_ms,
			kill_count, unique_participants, unique_killers, assist_count,
			objective_count, dragon_count, baron_count, herald_count, atakhan_count,
			spatial_spread
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range windows {
		f := w.Features
		_, err = stmt.Exec(
			w.MatchID, w.Index, w.StartMS, w.EndMS,
			f.KillCount, f.UniqueParticipants, f.UniqueKillers, f.AssistCount,
			f.ObjectiveCount, f.DragonCount, f.BaronCount, f.HeraldCount, f.AtakhanCount,
			f.SpatialSpread,
		)
		if err != nil {
			return fmt.Errorf("insert window %d: %w", w.Index, err)
		}
	}
	return tx.Commit()
}

// ClearMatchDerived deletes a match's previous windows, fights and
// summaries so a re-run never leaves stale rows behind.
func (db *DB) ClearMatchDerived(matchID string) error {
	for _, table := range []string{"window_features", "fights", "fight_summaries"} {
		if _, err := db.conn.Exec("DELETE FROM "+table+" WHERE match_id = ?", matchID); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, matchID, err)
		}
	}
	return nil
}

// InsertFights bulk-inserts a match's fight segments in a transaction.
func (db *DB) InsertFights(fights []model.FightSegment) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO fights(
			match_id, segment_id, cluster_id, start_ms, end_ms, window_first, window_last
		) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range fights {
		first, last := 0, 0
		if len(f.Windows) > 0 {
			first, last = f.Windows[0], f.Windows[len(f.Windows)-1]
		}
		if _, err := stmt.Exec(f.MatchID, f.SegmentID, f.ClusterID, f.StartMS, f.EndMS, first, last); err != nil {
			return fmt.Errorf("insert fight %s/%d: %w", f.MatchID, f.SegmentID, err)
		}
	}
	return tx.Commit()
}

// InsertSummaries bulk-inserts fight summaries; the kill feed and champion
// list are serialized as JSON in their columns.
func (db *DB) InsertSummaries(summaries []model.FightSummary) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO fight_summaries(
			match_id, segment_id, cluster_id,
			start_ms, end_ms, clip_start_ms, clip_end_ms,
			total_kills, participants, top_killer_champ, top_killer_kills,
			champions, kill_feed,
			obj_dragon, obj_baron, obj_herald, obj_atakhan, obj_tower, obj_inhib
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range summaries {
		champs, err := json.Marshal(s.Champions)
		if err != nil {
			return fmt.Errorf("marshal champions: %w", err)
		}
		feed, err := json.Marshal(s.KillFeed)
		if err != nil {
			return fmt.Errorf("marshal kill feed: %w", err)
		}
		_, err = stmt.Exec(
			s.MatchID, s.SegmentID, s.ClusterID,
			s.StartMS, s.EndMS, s.ClipStartMS, s.ClipEndMS,
			s.TotalKills, s.Participants, s.TopKillerChampion, s.TopKillerKills,
			string(champs), string(feed),
			s.Objectives.Dragon, s.Objectives.Baron, s.Objectives.Herald,
			s.Objectives.Atakhan, s.Objectives.Tower, s.Objectives.Inhib,
		)
		if err != nil {
			return fmt.Errorf("insert summary %s/%d: %w", s.MatchID, s.SegmentID, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored matches with their fight counts, ordered
// by fetch time then match ID (stable arrival order for grouping).
func (db *DB) ListMatches() ([]model.MatchInfo, error) {
	rows, err := db.conn.Query(`
		SELECT m.match_id, m.duration_ms, m.queue, m.fetched_at,
		       (SELECT COUNT(1) FROM fights f WHERE f.match_id = m.match_id)
		FROM matches m
		ORDER BY m.fetched_at, m.match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchInfo
	for rows.Next() {
		var info model.MatchInfo
		if err := rows.Scan(&info.MatchID, &info.DurationMS, &info.Queue, &info.FetchedAt, &info.FightCount); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose ID starts with the prefix,
// or nil when none does.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchInfo, error) {
	var info model.MatchInfo
	err := db.conn.QueryRow(`
		SELECT m.match_id, m.duration_ms, m.queue, m.fetched_at,
		       (SELECT COUNT(1) FROM fights f WHERE f.match_id = m.match_id)
		FROM matches m WHERE m.match_id LIKE ? ORDER BY m.match_id LIMIT 1`, prefix+"%").
		Scan(&info.MatchID, &info.DurationMS, &info.Queue, &info.FetchedAt, &info.FightCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

const summaryColumns = `
	s.match_id, s.segment_id, s.cluster_id,
	s.start_ms, s.end_ms, s.clip_start_ms, s.clip_end_ms,
	s.total_kills, s.participants, s.top_killer_champ, s.top_killer_kills,
	s.champions, s.kill_feed,
	s.obj_dragon, s.obj_baron, s.obj_herald, s.obj_atakhan, s.obj_tower, s.obj_inhib`

func scanSummary(rows *sql.Rows) (model.FightSummary, error) {
	var s model.FightSummary
	var champs, feed string
	err := rows.Scan(
		&s.MatchID, &s.SegmentID, &s.ClusterID,
		&s.StartMS, &s.EndMS, &s.ClipStartMS, &s.ClipEndMS,
		&s.TotalKills, &s.Participants, &s.TopKillerChampion, &s.TopKillerKills,
		&champs, &feed,
		&s.Objectives.Dragon, &s.Objectives.Baron, &s.Objectives.Herald,
		&s.Objectives.Atakhan, &s.Objectives.Tower, &s.Objectives.Inhib,
	)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(champs), &s.Champions); err != nil {
		return s, fmt.Errorf("decode champions for %s/%d: %w", s.MatchID, s.SegmentID, err)
	}
	if err := json.Unmarshal([]byte(feed), &s.KillFeed); err != nil {
		return s, fmt.Errorf("decode kill feed for %s/%d: %w", s.MatchID, s.SegmentID, err)
	}
	return s, nil
}

func (db *DB) querySummaries(query string, args ...interface{}) ([]model.FightSummary, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FightSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetAllSummaries returns every stored fight summary, grouped by match in
// arrival order and by segment within a match.
func (db *DB) GetAllSummaries() ([]model.FightSummary, error) {
	return db.querySummaries(`
		SELECT ` + summaryColumns + `
		FROM fight_summaries s
		JOIN matches m ON m.match_id = s.match_id
		ORDER BY m.fetched_at, s.match_id, s.segment_id`)
}

// GetSummaries returns one match's fight summaries in segment order.
func (db *DB) GetSummaries(matchID string) ([]model.FightSummary, error) {
	return db.querySummaries(`
		SELECT `+summaryColumns+`
		FROM fight_summaries s
		WHERE s.match_id = ? ORDER BY s.segment_id`, matchID)
}

// SaveQueryResult persists an executed query's ordered rows, keyed by the
// JSON fingerprint of the Query so re-running the same query replaces its
// previous result.
func (db *DB) SaveQueryResult(result *model.QueryResult) error {
	fp, err := json.Marshal(result.Query)
	if err != nil {
		return fmt.Errorf("fingerprint query: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM query_results WHERE fingerprint = ?", string(fp)); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO query_results(fingerprint, position, match_id, segment_id, total_kills, executed_at)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, s := range result.Summaries {
		if _, err := stmt.Exec(string(fp), i, s.MatchID, s.SegmentID, s.TotalKills, now); err != nil {
			return fmt.Errorf("insert query result row %d: %w", i, err)
		}
	}
	return tx.Commit()
}
