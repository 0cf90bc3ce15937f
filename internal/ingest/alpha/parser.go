package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/models"
)

// Line shapes of an export. Sessions are separated by blank lines.
var (
	// "Legs · Day 2";"2026-02-19 4:54 h";"1:02 hr"
	sessionLine = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Hack Squats · Machine · 8 reps"[;"WU1 · 37,5 kg · 9 reps<br>..."]
	exerciseLine = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1
	setLine = regexp.MustCompile(`^(\d+);(.+);(\d+);(.+)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupPart = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)
)

const columnLine = "#;KG;REPS;RIR"

// maxLine bounds a single export line; warm-up cells can be long.
const maxLine = 1 << 20

// sessionBuilder accumulates the session and exercise being read.
type sessionBuilder struct {
	sessions []models.AlphaSession
	session  *models.AlphaSession
	exercise *models.AlphaExercise
}

func (b *sessionBuilder) closeExercise() {
	if b.exercise != nil {
		b.session.Exercises = append(b.session.Exercises, *b.exercise)
		b.exercise = nil
	}
}

func (b *sessionBuilder) closeSession() {
	if b.session == nil {
		return
	}
	b.closeExercise()
	b.sessions = append(b.sessions, *b.session)
	b.session = nil
}

func (b *sessionBuilder) startSession(m []string) error {
	b.closeSession()
	date, err := parseSessionDate(m[2])
	if err != nil {
		return fmt.Errorf("parsing session date %q: %w", m[2], err)
	}
	b.session = &models.AlphaSession{
		Name:            m[1],
		Date:            date,
		DurationSeconds: parseSessionDuration(m[3]),
	}
	return nil
}

func (b *sessionBuilder) startExercise(m []string) error {
	if b.session == nil {
		return fmt.Errorf("exercise without session")
	}
	b.closeExercise()
	num, _ := strconv.Atoi(m[1])
	targetReps, _ := strconv.Atoi(m[4])
	b.exercise = &models.AlphaExercise{
		Number:     num,
		Name:       strings.TrimSpace(m[2]),
		Equipment:  strings.TrimSpace(m[3]),
		TargetReps: targetReps,
	}
	if m[6] != "" {
		b.exercise.Sets = append(b.exercise.Sets, parseWarmups(m[6])...)
	}
	return nil
}

func (b *sessionBuilder) addSet(m []string) error {
	if b.exercise == nil {
		return fmt.Errorf("set data without exercise")
	}
	num, _ := strconv.Atoi(m[1])
	weight, isBW := parseWeight(m[2])
	reps, _ := strconv.Atoi(m[3])
	b.exercise.Sets = append(b.exercise.Sets, models.AlphaSet{
		Number:           num,
		WeightKg:         weight,
		IsBodyweightPlus: isBW,
		Reps:             reps,
		RIR:              parseRIR(m[4]),
	})
	return nil
}

// Parse reads an Alpha Progression CSV export and returns parsed sessions.
// Lines it does not recognise, such as notes, are skipped.
func Parse(r io.Reader) ([]models.AlphaSession, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var b sessionBuilder
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch {
		case line == "":
			b.closeSession()
		case line == columnLine:
		default:
			if m := sessionLine.FindStringSubmatch(line); m != nil {
				err = b.startSession(m)
			} else if m := exerciseLine.FindStringSubmatch(line); m != nil {
				err = b.startExercise(m)
			} else if m := setLine.FindStringSubmatch(line); m != nil {
				err = b.addSet(m)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	b.closeSession()
	return b.sessions, nil
}

// parseSessionDate reads "2026-02-19 4:54" or "2026-02-19 16:54".
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseWarmups reads the warm-up cell, "<br>"-separated WU entries.
func parseWarmups(s string) []models.AlphaSet {
	var sets []models.AlphaSet
	for part := range strings.SplitSeq(s, "<br>") {
		m := warmupPart.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		weight, isBW := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, models.AlphaSet{
			Number:           num,
			WeightKg:         weight,
			IsBodyweightPlus: isBW,
			Reps:             reps,
			IsWarmup:         true,
		})
	}
	return sets
}

// parseWeight reads a weight cell with a decimal comma. A leading "+" marks
// load added to bodyweight.
func parseWeight(s string) (kg float64, bodyweightPlus bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		return decimal(rest), true
	}
	return decimal(s), false
}

// decimal reads "102,5" or "102.5"; unreadable text is 0.
func decimal(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return f
}

// parseRIR reads a RIR cell. Alpha Progression writes -1 when RIR was not
// tracked; that and unreadable cells yield nil.
func parseRIR(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

// parseSessionDuration reads the session length column, e.g. "1:02 hr" or
// "45 min". Hour values written as H:MM gain a seconds field so the duration
// parser reads them as hours. Returns nil when the text cannot be read.
func parseSessionDuration(s string) *int {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasSuffix(s, "hr"), strings.HasSuffix(s, "h"):
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "hr"), "h"))
		if strings.Count(s, ":") == 1 {
			s += ":00"
		} else if !strings.Contains(s, ":") {
			s += "h"
		}
	case strings.HasSuffix(s, "min"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "min")) + "m"
	}

	v, err := duration.Parse(s)
	if err != nil {
		return nil
	}
	return v.Ptr()
}
