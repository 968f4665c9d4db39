package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/manualmanul/XBN/internal/config"
	"github.com/manualmanul/XBN/internal/episode"
	"github.com/manualmanul/XBN/internal/history"
	"github.com/manualmanul/XBN/internal/id3v2"
	"github.com/manualmanul/XBN/internal/language"
	"github.com/manualmanul/XBN/internal/logging"
	"github.com/manualmanul/XBN/internal/markers"
	"github.com/manualmanul/XBN/internal/mp3"
	"github.com/manualmanul/XBN/internal/naming"
	"github.com/manualmanul/XBN/internal/services"
	"github.com/manualmanul/XBN/internal/services/lame"
	"github.com/manualmanul/XBN/internal/tagging"
)

// lockFileName is the advisory lock taken inside the output directory for
// the duration of a run.
const lockFileName = ".postshow.lock"

// Request describes one episode processing run.
type Request struct {
	Profile     string
	SourcePath  string
	OutputDir   string
	MarkersPath string

	// Episode values supplied up front (flags). Anything missing is
	// prompted for on Input. CommentProvided distinguishes an explicit
	// empty comment from an unset one.
	EpisodeNumber   string
	EpisodeName     string
	Comment         string
	CommentProvided bool

	// Input and Output carry the metadata prompts. They default to
	// stdin and stdout.
	Input  io.Reader
	Output io.Writer
}

// Result summarizes a completed run.
type Result struct {
	SessionID    string
	Profile      string
	Episode      episode.Metadata
	OutputPath   string
	DurationMS   int64
	ChapterCount int
	TagOrigin    id3v2.Origin
	Elapsed      time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithEncoder replaces the LAME client, primarily for tests.
func WithEncoder(enc lame.Encoder) Option {
	return func(r *Runner) {
		if enc != nil {
			r.encoder = enc
		}
	}
}

// WithHistory attaches a session history store. Without one, runs are not
// recorded.
func WithHistory(store *history.Store) Option {
	return func(r *Runner) { r.history = store }
}

// WithClock overrides the time source used for the recording date frame.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Runner executes processing runs against one configuration.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	encoder lame.Encoder
	history *history.Store
	now     func() time.Time
}

// New constructs a Runner. The default encoder shells out to the
// configured LAME binary.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("workflow: config required")
	}
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "workflow"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.encoder == nil {
		client, err := lame.New(cfg.EncoderBinary())
		if err != nil {
			return nil, fmt.Errorf("workflow: %w", err)
		}
		r.encoder = client
	}
	return r, nil
}

// Run processes one episode. The context cancels the encode; after a
// cancelled or failed encode no tag operation touches the output.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	sessionID := uuid.NewString()
	ctx = services.WithSessionID(ctx, sessionID)
	log := logging.WithContext(ctx, r.logger)

	profile, chapters, err := r.prepare(services.WithStage(ctx, "prepare"), req)
	if err != nil {
		return nil, err
	}
	log.Info("processing episode",
		logging.String(logging.FieldProfile, req.Profile),
		logging.String("source", req.SourcePath),
		logging.Int("chapters", len(chapters)))

	lock := flock.New(filepath.Join(req.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "prepare", "lock", "acquire output directory lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "prepare", "lock",
			fmt.Sprintf("another run is already writing to %s", req.OutputDir), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("release output directory lock", logging.Error(err))
		}
	}()

	tempPath := filepath.Join(req.OutputDir, ".postshow-"+sessionID+".mp3")
	meta, err := r.encodeAndCollect(ctx, req, profile, tempPath)
	if err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			log.Warn("remove partial encode", logging.Error(removeErr))
		}
		return nil, err
	}

	outputPath, err := r.placeOutput(req, profile, meta, tempPath)
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, err
	}

	durationMS, origin, err := r.tagEpisode(services.WithStage(ctx, "tag"), profile, meta, chapters, outputPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SessionID:    sessionID,
		Profile:      req.Profile,
		Episode:      meta,
		OutputPath:   outputPath,
		DurationMS:   durationMS,
		ChapterCount: len(chapters),
		TagOrigin:    origin,
		Elapsed:      time.Since(started),
	}
	r.record(services.WithStage(ctx, "record"), req, profile, result)

	log.Info("episode processed",
		logging.String("output", outputPath),
		logging.Int64("duration_ms", durationMS),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

// prepare resolves the profile and fails fast on anything wrong with the
// inputs, before the encoder has done any work.
func (r *Runner) prepare(ctx context.Context, req Request) (config.Profile, []tagging.Chapter, error) {
	name := strings.TrimSpace(req.Profile)
	if name == "" {
		return config.Profile{}, nil, services.Wrap(services.ErrConfiguration, "prepare", "profile",
			fmt.Sprintf("no profile selected (configured: %s)", strings.Join(r.cfg.ProfileNames(), ", ")), nil)
	}
	profile, ok := r.cfg.Profile(name)
	if !ok {
		return config.Profile{}, nil, services.Wrap(services.ErrConfiguration, "prepare", "profile",
			fmt.Sprintf("unknown profile %q (configured: %s)", name, strings.Join(r.cfg.ProfileNames(), ", ")), nil)
	}

	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return config.Profile{}, nil, services.Wrap(services.ErrNotFound, "prepare", "source", "stat recording", err)
	}
	if info.IsDir() {
		return config.Profile{}, nil, services.Wrap(services.ErrValidation, "prepare", "source",
			fmt.Sprintf("%s is a directory", req.SourcePath), nil)
	}

	var chapters []tagging.Chapter
	if strings.TrimSpace(req.MarkersPath) != "" {
		chapters, err = markers.ParseFile(req.MarkersPath)
		if err != nil {
			return config.Profile{}, nil, services.Wrap(services.ErrValidation, "prepare", "markers", "parse label file", err)
		}
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return config.Profile{}, nil, services.Wrap(services.ErrTransient, "prepare", "output", "create output directory", err)
	}
	return profile, chapters, nil
}

// encodeAndCollect runs the encode and the metadata prompts concurrently.
// Either failure cancels the other; the caller removes the temp file.
func (r *Runner) encodeAndCollect(ctx context.Context, req Request, profile config.Profile, tempPath string) (episode.Metadata, error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ectx := services.WithStage(gctx, "encode")
		elog := logging.WithContext(ectx, r.logger)
		elog.Info("encoding",
			logging.String("source", req.SourcePath),
			logging.Int("bitrate_kbps", profile.Bitrate))

		sampler := logging.NewProgressSampler(10)
		encodeReq := lame.Request{InputPath: req.SourcePath, OutputPath: tempPath, Bitrate: profile.Bitrate}
		err := r.encoder.Encode(ectx, encodeReq, func(p lame.Progress) {
			if sampler.ShouldLog(p.Percent) {
				elog.Debug("encode progress",
					logging.Int("frame", p.Frame),
					logging.Int("total_frames", p.TotalFrames),
					logging.Float64("percent", p.Percent))
			}
		})
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "encode", "lame", "encode recording", err)
		}
		elog.Info("encode finished")
		return nil
	})

	var meta episode.Metadata
	g.Go(func() error {
		mctx := services.WithStage(gctx, "metadata")
		in := req.Input
		if in == nil {
			in = os.Stdin
		}
		out := req.Output
		if out == nil {
			out = os.Stdout
		}
		collected, err := episode.Collect(mctx, in, out, episode.Defaults{
			Number:          req.EpisodeNumber,
			Name:            req.EpisodeName,
			Comment:         req.Comment,
			CommentProvided: req.CommentProvided,
			SuggestedName:   naming.DeriveTitle(req.SourcePath),
		})
		if err != nil {
			return services.Wrap(services.ErrValidation, "metadata", "collect", "episode metadata", err)
		}
		meta = collected
		return nil
	})

	if err := g.Wait(); err != nil {
		return episode.Metadata{}, err
	}
	return meta, nil
}

// placeOutput renames the finished encode to its templated name inside the
// output directory. An existing file with the same name is replaced, the
// way rerunning an episode should behave.
func (r *Runner) placeOutput(req Request, profile config.Profile, meta episode.Metadata, tempPath string) (string, error) {
	name := naming.OutputName(profile.Filename, profile.Slug, meta.Number, meta.Name)
	if name == "" {
		return "", services.Wrap(services.ErrConfiguration, "encode", "output",
			fmt.Sprintf("filename template %q rendered an empty name", profile.Filename), nil)
	}
	outputPath := filepath.Join(req.OutputDir, name)
	if err := os.Rename(tempPath, outputPath); err != nil {
		return "", services.Wrap(services.ErrTransient, "encode", "output", "move encode into place", err)
	}
	return outputPath, nil
}

// tagEpisode rewrites the finished file's tag: play length, the profile's
// text frames, the episode comment, and the chapter set.
func (r *Runner) tagEpisode(ctx context.Context, profile config.Profile, meta episode.Metadata, chapters []tagging.Chapter, outputPath string) (int64, id3v2.Origin, error) {
	log := logging.WithContext(ctx, r.logger)

	tagger, err := tagging.Open(outputPath)
	if err != nil {
		return 0, 0, services.Wrap(tagMarker(err), "tag", "open", "open tag", err)
	}
	defer tagger.Close()

	tagger.SetTitle(naming.EpisodeTitle(profile.Title, profile.Slug, meta.Number, meta.Name))
	tagger.SetArtist(profile.Artist)
	tagger.SetAlbum(profile.Album)
	if profile.Season != "" {
		tagger.SetSeason(profile.Season)
	}
	tagger.SetGenre(profile.Genre)
	tagger.SetComposer(profile.Artist)
	tagger.SetAccompaniment(profile.Artist)
	if profile.WriteDate {
		tagger.SetDate(r.now().Format("2006-01-02"))
	}
	if profile.WriteTrackNo {
		tagger.SetTrackNumber(meta.Number)
	}

	lang := language.ToISO3(profile.Language)
	tagger.SetLanguage(lang)
	if meta.Comment != "" {
		tagger.AddComment(lang, "", meta.Comment)
		if profile.LyricsEqualsComment {
			tagger.AddLyrics(lang, "", meta.Comment)
		}
	}

	if err := tagger.SetChapters(chapters); err != nil {
		return 0, 0, services.Wrap(tagMarker(err), "tag", "chapters", "render chapters", err)
	}

	if err := tagger.Save(); err != nil {
		return 0, 0, services.Wrap(services.ErrTransient, "tag", "save", "write tag", err)
	}
	log.Info("tag written",
		logging.String("origin", tagger.Origin().String()),
		logging.Int64("duration_ms", tagger.DurationMS()))
	return tagger.DurationMS(), tagger.Origin(), nil
}

// record stores the finished session. The episode is already on disk with
// its final tag, so history trouble is only worth a warning.
func (r *Runner) record(ctx context.Context, req Request, profile config.Profile, result *Result) {
	if r.history == nil {
		return
	}
	log := logging.WithContext(ctx, r.logger)
	err := r.history.Record(ctx, history.Session{
		ID:            result.SessionID,
		Profile:       req.Profile,
		Slug:          profile.Slug,
		EpisodeNumber: result.Episode.Number,
		EpisodeTitle:  result.Episode.Name,
		SourcePath:    req.SourcePath,
		OutputPath:    result.OutputPath,
		DurationMS:    result.DurationMS,
		ChapterCount:  result.ChapterCount,
		TagOrigin:     result.TagOrigin.String(),
		CreatedAt:     r.now().UTC(),
	})
	if err != nil {
		log.Warn("record session history", logging.Error(err))
		return
	}
	log.Debug("session recorded")
}

// tagMarker classifies a tagging failure for services.Wrap.
func tagMarker(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return services.ErrNotFound
	case errors.Is(err, tagging.ErrChapterImage):
		return services.ErrNotImplemented
	case errors.Is(err, mp3.ErrNoAudioFrames):
		return services.ErrValidation
	default:
		return services.ErrTransient
	}
}
