package pipeline

import (
	"log/slog"

	"github.com/DengYangGong/YT-AISpider/internal/config"
)

// Stats summarizes one resegmentation run.
type Stats struct {
	Parsed        int
	Merged        int
	Cues          int
	EmptyBlocks   int
	ClippedBlocks int
}

// Processor rewrites parsed ASR captions into display cues: overlap merge,
// then per merged block text segmentation and time allocation.
type Processor struct {
	segmenter *Segmenter
	allocator *Allocator
	logger    *slog.Logger
}

// NewProcessor builds a Processor from subtitle settings. A nil logger uses
// slog.Default().
func NewProcessor(settings config.SubtitleSettings, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		segmenter: NewSegmenter(settings.MaxWords),
		allocator: NewAllocator(Millis(settings.MinCueMs)),
		logger:    logger,
	}
}

// Process returns the re-indexed cue sequence for caps.
func (p *Processor) Process(caps []Caption) ([]Caption, Stats) {
	stats := Stats{Parsed: len(caps)}

	merged := MergeOverlapping(caps)
	stats.Merged = len(merged)

	var cues []Caption
	for _, blk := range merged {
		pieces := p.segmenter.Split(blk.Text)
		if len(pieces) == 0 {
			stats.EmptyBlocks++
			p.logger.Debug("merged block has no text, dropping",
				"start", MustFormatTimecode(max(blk.Start, 0)))
			continue
		}

		timed, clipped := p.allocator.Allocate(blk, pieces)
		if clipped {
			stats.ClippedBlocks++
			p.logger.Warn("cue minimum duration overran block, clipped trailing cues",
				"start", MustFormatTimecode(max(blk.Start, 0)),
				"end", MustFormatTimecode(max(blk.End, 0)),
				"pieces", len(pieces))
		}
		cues = append(cues, timed...)
	}

	cues = Reindex(cues)
	stats.Cues = len(cues)
	return cues, stats
}
