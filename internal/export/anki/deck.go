package anki

import (
	"archive/zip"
	"crypto/md5"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DefaultDeckName is used when no deck name is configured.
const DefaultDeckName = "Mediascribe Deck"

// An .apkg file is a zip archive holding an SQLite collection plus a media
// manifest. The schema below is the Anki 2 collection layout.
const collectionSchema = `
CREATE TABLE col (
	id integer PRIMARY KEY,
	crt integer NOT NULL,
	mod integer NOT NULL,
	scm integer NOT NULL,
	ver integer NOT NULL,
	dty integer NOT NULL,
	usn integer NOT NULL,
	ls integer NOT NULL,
	conf text NOT NULL,
	models text NOT NULL,
	decks text NOT NULL,
	dconf text NOT NULL,
	tags text NOT NULL
);
CREATE TABLE notes (
	id integer PRIMARY KEY,
	guid text NOT NULL,
	mid integer NOT NULL,
	mod integer NOT NULL,
	usn integer NOT NULL,
	tags text NOT NULL,
	flds text NOT NULL,
	sfld integer NOT NULL,
	csum integer NOT NULL,
	flags integer NOT NULL,
	data text NOT NULL
);
CREATE TABLE cards (
	id integer PRIMARY KEY,
	nid integer NOT NULL,
	did integer NOT NULL,
	ord integer NOT NULL,
	mod integer NOT NULL,
	usn integer NOT NULL,
	type integer NOT NULL,
	queue integer NOT NULL,
	due integer NOT NULL,
	ivl integer NOT NULL,
	factor integer NOT NULL,
	reps integer NOT NULL,
	lapses integer NOT NULL,
	left integer NOT NULL,
	odue integer NOT NULL,
	odid integer NOT NULL,
	flags integer NOT NULL,
	data text NOT NULL
);
CREATE TABLE revlog (
	id integer PRIMARY KEY,
	cid integer NOT NULL,
	usn integer NOT NULL,
	ease integer NOT NULL,
	ivl integer NOT NULL,
	lastIvl integer NOT NULL,
	factor integer NOT NULL,
	time integer NOT NULL,
	type integer NOT NULL
);
CREATE TABLE graves (
	usn integer NOT NULL,
	oid integer NOT NULL,
	type integer NOT NULL
);
CREATE INDEX ix_notes_csum ON notes (csum);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
`

// WriteAPKG writes the deck content as an Anki package file at path. The
// content is validated first; an invalid envelope produces no output file.
func WriteAPKG(path, deckName string, content DeckContent) error {
	if deckName == "" {
		deckName = DefaultDeckName
	}

	if err := content.Validate(); err != nil {
		return fmt.Errorf("invalid deck content; %w", err)
	}
	if len(content.Flashcards) == 0 {
		return fmt.Errorf("deck content has no flashcards")
	}

	tmpDir, err := os.MkdirTemp("", "mediascribe-apkg-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory; %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "collection.anki2")
	if err := buildCollection(dbPath, deckName, content); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory; %w", err)
	}

	return writePackage(path, dbPath)
}

// buildCollection creates the SQLite collection with one deck and one note
// plus card per flashcard.
func buildCollection(dbPath, deckName string, content DeckContent) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open collection database; %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("failed to create collection schema; %w", err)
	}

	now := time.Now()
	nowMillis := now.UnixMilli()
	nowSecs := now.Unix()
	did := deckID(deckName)

	colRow, err := buildColRow(deckName, did, nowSecs, nowMillis)
	if err != nil {
		return err
	}
	if _, err := db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		nowSecs, nowMillis, nowMillis, colRow.conf, colRow.models, colRow.decks, colRow.dconf,
	); err != nil {
		return fmt.Errorf("failed to write collection row; %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction; %w", err)
	}
	defer tx.Rollback()

	for i, card := range content.Flashcards {
		model := noteModels[card.Type]
		fields := fieldValues(card)
		flds := joinFields(fields)
		sfld := fields[0]

		noteID := nowMillis + int64(i)
		if _, err := tx.Exec(
			`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			 VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`,
			noteID, noteGUID(model.id, flds), model.id, nowSecs,
			noteTags(card), flds, sfld, fieldChecksum(sfld),
		); err != nil {
			return fmt.Errorf("failed to insert note %q; %w", card.ID, err)
		}

		cardID := noteID + int64(len(content.Flashcards))
		if _, err := tx.Exec(
			`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor,
			                    reps, lapses, left, odue, odid, flags, data)
			 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
			cardID, noteID, did, nowSecs, i+1,
		); err != nil {
			return fmt.Errorf("failed to insert card %q; %w", card.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection; %w", err)
	}

	return nil
}

type colJSON struct {
	conf, models, decks, dconf string
}

func buildColRow(deckName string, did, nowSecs, nowMillis int64) (colJSON, error) {
	models := make(map[string]any, len(noteModels))
	for _, model := range noteModels {
		flds := make([]map[string]any, len(model.fields))
		for ord, name := range model.fields {
			flds[ord] = map[string]any{
				"name": name, "ord": ord, "sticky": false, "rtl": false,
				"font": "Arial", "size": 20, "media": []any{},
			}
		}
		models[strconv.FormatInt(model.id, 10)] = map[string]any{
			"id": model.id, "name": model.name, "type": 0,
			"mod": nowSecs, "usn": -1, "sortf": 0, "did": did,
			"tmpls": []map[string]any{{
				"name": "Card 1", "ord": 0,
				"qfmt": model.qfmt, "afmt": model.afmt,
				"did": nil, "bqfmt": "", "bafmt": "",
			}},
			"flds":      flds,
			"css":       cardCSS,
			"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\begin{document}\n",
			"latexPost": "\\end{document}",
			"req":       []any{[]any{0, "all", []any{0}}},
		}
	}

	deckDefaults := func(id int64, name string) map[string]any {
		return map[string]any{
			"id": id, "name": name, "mod": nowSecs, "usn": -1,
			"desc": "", "dyn": 0, "conf": 1, "collapsed": false,
			"extendNew": 0, "extendRev": 50,
			"newToday": []any{0, 0}, "revToday": []any{0, 0},
			"lrnToday": []any{0, 0}, "timeToday": []any{0, 0},
		}
	}
	decks := map[string]any{
		"1": deckDefaults(1, "Default"),
		strconv.FormatInt(did, 10): deckDefaults(did, deckName),
	}

	conf := map[string]any{
		"nextPos": 1, "estTimes": true, "activeDecks": []any{1},
		"sortType": "noteFld", "timeLim": 0, "sortBackwards": false,
		"addToCur": true, "curDeck": 1, "newBury": true, "newSpread": 0,
		"dueCounts": true, "curModel": strconv.Itoa(conceptDefinitionModelID),
		"collapseTime": 1200,
	}

	dconf := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "mod": 0, "usn": 0,
			"maxTaken": 60, "autoplay": true, "timer": 0, "replayq": true,
			"new": map[string]any{
				"bury": true, "delays": []any{1, 10}, "initialFactor": 2500,
				"ints": []any{1, 4, 7}, "order": 1, "perDay": 20, "separate": true,
			},
			"rev": map[string]any{
				"bury": true, "ease4": 1.3, "fuzz": 0.05, "ivlFct": 1,
				"maxIvl": 36500, "minSpace": 1, "perDay": 100,
			},
			"lapse": map[string]any{
				"delays": []any{10}, "leechAction": 0, "leechFails": 8,
				"minInt": 1, "mult": 0,
			},
		},
	}

	out := colJSON{}
	for _, item := range []struct {
		dst *string
		src any
	}{{&out.conf, conf}, {&out.models, models}, {&out.decks, decks}, {&out.dconf, dconf}} {
		data, err := json.Marshal(item.src)
		if err != nil {
			return colJSON{}, fmt.Errorf("failed to marshal collection metadata; %w", err)
		}
		*item.dst = string(data)
	}

	return out, nil
}

// writePackage zips the collection and an empty media manifest into the
// .apkg file.
func writePackage(path, dbPath string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create package file; %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	dbEntry, err := zw.Create("collection.anki2")
	if err != nil {
		return fmt.Errorf("failed to add collection to package; %w", err)
	}
	dbFile, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open staged collection; %w", err)
	}
	if _, err := io.Copy(dbEntry, dbFile); err != nil {
		dbFile.Close()
		return fmt.Errorf("failed to copy collection into package; %w", err)
	}
	dbFile.Close()

	mediaEntry, err := zw.Create("media")
	if err != nil {
		return fmt.Errorf("failed to add media manifest; %w", err)
	}
	if _, err := mediaEntry.Write([]byte("{}")); err != nil {
		return fmt.Errorf("failed to write media manifest; %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize package; %w", err)
	}
	return out.Close()
}

// deckID derives a stable positive 31-bit ID from the deck name so repeated
// exports of the same deck update rather than duplicate it.
func deckID(name string) int64 {
	sum := md5.Sum([]byte(name))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v % (1 << 31)
}

// fieldChecksum is the integer form of the first 8 hex digits of the SHA-1 of
// the sort field, matching Anki's duplicate detection.
func fieldChecksum(sfld string) int64 {
	sum := sha1.Sum([]byte(sfld))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}

// noteGUID derives a stable note GUID from the model and field content.
func noteGUID(modelID int64, flds string) string {
	sum := sha1.Sum([]byte(strconv.FormatInt(modelID, 10) + "\x1f" + flds))
	return hex.EncodeToString(sum[:])[:10]
}

// joinFields packs field values with Anki's 0x1f separator.
func joinFields(fields []string) string {
	return strings.Join(fields, "\x1f")
}

// noteTags renders tags space-separated with surrounding spaces, the format
// the notes table expects. Spaces inside a tag are replaced to keep tags
// atomic.
func noteTags(card Flashcard) string {
	if len(card.Tags) == 0 {
		return ""
	}
	tags := make([]string, len(card.Tags))
	for i, tag := range card.Tags {
		tags[i] = strings.ReplaceAll(tag, " ", "_")
	}
	return " " + strings.Join(tags, " ") + " "
}
