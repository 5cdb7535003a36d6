package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"connectfour/engine"
	"connectfour/experiments/metrics"
	"connectfour/game"
	"connectfour/searcher"
)

const NumGames = 30 // Per match up

var difficultyConfigs = []metrics.AgentConfig{
	{ID: 1, Difficulty: engine.Easy.String(), Depth: engine.Easy.Depth()},
	{ID: 2, Difficulty: engine.Medium.String(), Depth: engine.Medium.Depth()},
	{ID: 3, Difficulty: engine.Hard.String(), Depth: engine.Hard.Depth()},
}

// RunStrengthExperiment plays every pairing of difficulty levels against
// each other and records per-game and per-move search metrics for offline
// analysis of playing strength versus depth.
func RunStrengthExperiment() {
	matchUps := [][]metrics.AgentConfig{}
	for i, config1 := range difficultyConfigs {
		for _, config2 := range difficultyConfigs[i:] {
			matchUps = append(matchUps, []metrics.AgentConfig{config1, config2})
		}
	}

	runExperiment("strength", difficultyConfigs, matchUps)
}

func runExperiment(name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), config1, config2)

		for i := 0; i < NumGames; i++ {
			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, NumGames)

			// Alternate the starting agent so neither side gets the
			// first-move advantage across the whole matchup.
			first := i % 2
			winner, gameMetric, moveMetrics := runGame(config1, config2, first)
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(name)
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		panic(fmt.Sprintf("failed to store agent configs: %v", err))
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write game records: %v", err))
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write move records: %v", err))
	}
	log.Info().Msg("stored move records")
}

// selfPlayAgent is one side of a self-play game: a search config plus the
// cache and collector its moves share.
type selfPlayAgent struct {
	config    metrics.AgentConfig
	disc      game.Cell
	table     *searcher.Table
	collector searcher.Collector
}

func newSelfPlayAgent(config metrics.AgentConfig, disc game.Cell) *selfPlayAgent {
	return &selfPlayAgent{
		config:    config,
		disc:      disc,
		table:     searcher.NewTable(),
		collector: searcher.NewCollector(),
	}
}

func (a *selfPlayAgent) move(b *game.Board) (searcher.Result, searcher.Metrics) {
	m := searcher.NewMinimax(
		searcher.WithMaxDepth(a.config.Depth),
		searcher.WithTable(a.table),
		searcher.WithCollector(a.collector),
	)
	result := m.FindBestMove(b, a.disc)
	return result, a.collector.Complete()
}

// runGame plays one full game between two agents. first selects which config
// owns the first move (0 or 1).
func runGame(config1, config2 metrics.AgentConfig, first int) (string, metrics.GameMetric, []metrics.MoveMetric) {
	agents := [2]*selfPlayAgent{
		newSelfPlayAgent(config1, game.PlayerA),
		newSelfPlayAgent(config2, game.PlayerB),
	}

	b := game.NewBoard()
	start := time.Now()
	moveMetrics := []metrics.MoveMetric{}

	turn := first
	step := 0
	winner := "draw"
	for {
		agent := agents[turn]
		result, searchMetrics := agent.move(b)

		col := result.Column
		if col < 0 {
			col = b.LegalColumns()[0]
		}
		row, err := b.Drop(col, agent.disc)
		if err != nil {
			panic(fmt.Sprintf("self-play produced an illegal move: %v", err))
		}
		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:    step,
			Agent:   agent.config.ID,
			Column:  col,
			Score:   result.Score,
			Metrics: searchMetrics,
		})

		if _, won := b.CheckWin(row, col); won {
			winner = agent.config.Difficulty
			break
		}
		if b.IsFull() {
			break
		}
		turn = 1 - turn
	}

	end := time.Now()
	gameMetric := metrics.GameMetric{
		StartingAgent: agents[first].config.ID,
		Winner:        winner,
		StartTime:     start,
		EndTime:       end,
		Duration:      end.Sub(start),
		TotalMoves:    step,
	}
	return winner, gameMetric, moveMetrics
}
