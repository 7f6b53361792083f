package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"bundesrat/internal/config"
	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
	"bundesrat/pkg/contracts/domain"
)

// Column names introduced when the Spanish table is merged
const (
	colDateOfBirth = "DateOfBirth"
	colDateOfDeath = "DateOfDeath"
)

// Loader reads the admin.ch export and joins it with the two Wikipedia tables
type Loader struct {
	logger *slog.Logger
	cols   config.ColumnsConfig
}

// NewLoader creates a loader for the given source column names
func NewLoader(logger *slog.Logger, cols config.ColumnsConfig) *Loader {
	return &Loader{
		logger: infrastructure.WithComponent(logger, "loader"),
		cols:   cols,
	}
}

// NormalizeName converts "last, first" into "first last". Names without a
// comma are returned unchanged.
func NormalizeName(name string) string {
	parts := strings.Split(name, ", ")
	if len(parts) < 2 {
		return name
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " ")
}

// Load reads the three sources, joins them 1:1 and parses the result
func (l *Loader) Load(ctx context.Context, paths *config.Paths) ([]domain.CouncilMember, error) {
	joined, err := l.LoadFrame(ctx, paths)
	if err != nil {
		return nil, err
	}

	members, err := ParseMembers(joined, l.cols)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Council members loaded",
		slog.Int("members", len(members)),
		slog.Int("columns", joined.Ncol()))
	return members, nil
}

// LoadFrame returns the joined table before it is parsed into members
func (l *Loader) LoadFrame(ctx context.Context, paths *config.Paths) (dataframe.DataFrame, error) {
	c := l.cols

	admin, err := readTable(paths.AdminCSV, ';')
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := requireColumns(admin, paths.AdminCSV, c.Name, c.Party, c.Sex, c.Kanton, c.Elected, c.Retired, c.FirstDayInOffice); err != nil {
		return dataframe.DataFrame{}, err
	}

	names := admin.Col(c.Name).Records()
	for i, n := range names {
		names[i] = NormalizeName(n)
	}
	admin = admin.Mutate(series.New(names, series.String, c.Name))
	if admin.Err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError("failed to normalize names", admin.Err)
	}

	wikiDE, err := readTable(paths.WikipediaDECSV, '\t')
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := requireColumns(wikiDE, paths.WikipediaDECSV, c.Name, c.Number, c.Amtsjahre, c.Lebensdaten); err != nil {
		return dataframe.DataFrame{}, err
	}
	wikiDE = wikiDE.Select([]string{c.Number, c.Name, c.Amtsjahre, c.Lebensdaten})
	if wikiDE.Err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError("failed to prepare Wikipedia (de) table", wikiDE.Err)
	}

	l.logger.DebugContext(ctx, "Joining admin.ch with Wikipedia (de)",
		slog.Int("admin_rows", admin.Nrow()),
		slog.Int("wikipedia_de_rows", wikiDE.Nrow()))

	data, err := joinOneToOne(admin, wikiDE, c.Name, "admin.ch", "wikipedia-de")
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	wikiES, err := readTable(paths.WikipediaESCSV, '\t')
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := requireColumns(wikiES, paths.WikipediaESCSV, c.ESNumber, c.ESBorn, c.ESDied); err != nil {
		return dataframe.DataFrame{}, err
	}
	wikiES = wikiES.
		Rename(c.Number, c.ESNumber).
		Rename(colDateOfBirth, c.ESBorn).
		Rename(colDateOfDeath, c.ESDied).
		Select([]string{c.Number, colDateOfBirth, colDateOfDeath})
	if wikiES.Err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError("failed to prepare Wikipedia (es) table", wikiES.Err)
	}

	l.logger.DebugContext(ctx, "Joining with Wikipedia (es)",
		slog.Int("joined_rows", data.Nrow()),
		slog.Int("wikipedia_es_rows", wikiES.Nrow()))

	data, err = joinOneToOne(data, wikiES, c.Number, "wikipedia-de", "wikipedia-es")
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return data, nil
}

// readTable loads a delimited file with every column kept as string
func readTable(path string, delimiter rune) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dataframe.DataFrame{}, errors.NewNotFoundError(path)
		}
		return dataframe.DataFrame{}, errors.NewStorageError("failed to open "+path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError("failed to read "+path, df.Err)
	}
	return df, nil
}

func requireColumns(df dataframe.DataFrame, source string, names ...string) error {
	present := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		present[n] = true
	}
	var missing []string
	for _, n := range names {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return errors.NewParsingError(fmt.Sprintf("missing columns in %s: %s", source, strings.Join(missing, ", ")), nil)
	}
	return nil
}

// joinOneToOne inner-joins left and right on key and fails unless every row
// found exactly one partner. Columns present on both sides keep the left
// values; gota would otherwise rename both copies.
func joinOneToOne(left, right dataframe.DataFrame, key, leftName, rightName string) (dataframe.DataFrame, error) {
	if err := requireUniqueKeys(left, key, leftName); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := requireUniqueKeys(right, key, rightName); err != nil {
		return dataframe.DataFrame{}, err
	}

	if shared := sharedColumns(left, right, key); len(shared) > 0 {
		right = right.Drop(shared)
		if right.Err != nil {
			return dataframe.DataFrame{}, errors.NewJoinError(fmt.Sprintf("failed to drop shared columns of %s", rightName)).
				WithContext("cause", right.Err.Error())
		}
	}

	joined := left.InnerJoin(right, key)
	if joined.Err != nil {
		return dataframe.DataFrame{}, errors.NewJoinError(fmt.Sprintf("join %s with %s on %s failed", leftName, rightName, key)).
			WithContext("cause", joined.Err.Error())
	}

	if joined.Nrow() != left.Nrow() || joined.Nrow() != right.Nrow() {
		return dataframe.DataFrame{}, errors.NewJoinError(fmt.Sprintf("join %s with %s on %s is not 1:1", leftName, rightName, key)).
			WithContext("joined_rows", joined.Nrow()).
			WithContext(leftName+"_rows", left.Nrow()).
			WithContext(rightName+"_rows", right.Nrow()).
			WithContext("unmatched", unmatchedKeys(left, joined, key))
	}
	return joined, nil
}

// sharedColumns lists the non-key columns of right that left also has
func sharedColumns(left, right dataframe.DataFrame, key string) []string {
	present := make(map[string]bool, left.Ncol())
	for _, n := range left.Names() {
		present[n] = true
	}
	var shared []string
	for _, n := range right.Names() {
		if n != key && present[n] {
			shared = append(shared, n)
		}
	}
	return shared
}

func requireUniqueKeys(df dataframe.DataFrame, key, source string) error {
	seen := make(map[string]bool, df.Nrow())
	var dups []string
	for _, k := range df.Col(key).Records() {
		if seen[k] {
			dups = append(dups, k)
			continue
		}
		seen[k] = true
	}
	if len(dups) > 0 {
		return errors.NewJoinError(fmt.Sprintf("duplicate %s keys in %s", key, source)).
			WithContext("duplicates", dups)
	}
	return nil
}

// unmatchedKeys lists the left keys that did not survive the join
func unmatchedKeys(left, joined dataframe.DataFrame, key string) []string {
	matched := make(map[string]bool, joined.Nrow())
	for _, k := range joined.Col(key).Records() {
		matched[k] = true
	}
	var out []string
	for _, k := range left.Col(key).Records() {
		if !matched[k] {
			out = append(out, k)
		}
	}
	return out
}
