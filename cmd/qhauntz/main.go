// Package main provides the qhauntz CLI, which loads pregenerated characters
// and runs one rules action against them.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/config"
	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/combat"
	"github.com/cory-johannsen/qhauntz/internal/game/dice"
	"github.com/cory-johannsen/qhauntz/internal/game/roster"
	"github.com/cory-johannsen/qhauntz/internal/observability"
	"github.com/cory-johannsen/qhauntz/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	charactersDir := flag.String("characters", "", "character template directory; overrides content.characters_dir")
	scriptsDir := flag.String("scripts", "", "Lua hook script directory; overrides scripting.dir")
	var req request
	flag.StringVar(&req.Character, "character", "", "template or sheet ID of the acting character (required)")
	flag.StringVar(&req.Action, "action", "show", "action: show, damage, tend, or attack")
	flag.IntVar(&req.Amount, "amount", 0, "damage or healing shifts")
	flag.StringVar(&req.Category, "category", "endurance", "stress category: endurance, resolve, or aether")
	flag.StringVar(&req.Skill, "skill", "", "physical skill for the attack's first roll")
	flag.IntVar(&req.Spend, "spend", 0, "Aether spent on the attack")
	flag.Var(&req.Roll, "roll", "first-roll dice total; rolled when omitted")
	flag.Var(&req.DamageRoll, "damage-roll", "second-roll dice total; rolled when omitted")
	flag.StringVar(&req.Target, "target", "", "template or sheet ID that takes the attack's damage")
	flag.Parse()

	if req.Character == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *charactersDir != "" {
		cfg.Content.CharactersDir = *charactersDir
	}
	if *scriptsDir != "" {
		cfg.Scripting.Dir = *scriptsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	expr, err := dice.Parse(cfg.Dice.Expression)
	if err != nil {
		logger.Fatal("parsing dice expression", zap.Error(err))
	}
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	templates, err := character.LoadTemplates(cfg.Content.CharactersDir)
	if err != nil {
		logger.Fatal("loading character templates", zap.Error(err))
	}
	chars := roster.New()
	for _, tmpl := range templates {
		sheet, err := character.NewSheet(tmpl)
		if err != nil {
			logger.Fatal("instantiating character", zap.String("template", tmpl.ID), zap.Error(err))
		}
		if err := chars.Add(sheet); err != nil {
			logger.Fatal("registering character", zap.String("template", tmpl.ID), zap.Error(err))
		}
	}
	logger.Info("characters loaded",
		zap.String("dir", cfg.Content.CharactersDir),
		zap.Int("count", chars.Len()),
	)

	var opts []combat.Option
	if cfg.Scripting.Dir != "" {
		scripts := scripting.NewManager(roller, logger)
		if err := scripts.Load(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading hook scripts", zap.Error(err))
		}
		defer scripts.Close()
		opts = append(opts, combat.WithHooks(scripts))
	}
	engine := combat.NewEngine(rulesFromConfig(cfg.Rules), logger, opts...)

	h := &host{engine: engine, roster: chars, roller: roller, expr: expr, out: os.Stdout}
	if err := h.run(req); err != nil {
		logger.Error("action failed", zap.String("action", req.Action), zap.Error(err))
		os.Exit(1)
	}

	logger.Debug("done", zap.Duration("elapsed", time.Since(start)))
}

// rulesFromConfig maps the rules section of the config onto the engine's constants.
func rulesFromConfig(rc config.RulesConfig) combat.Rules {
	return combat.Rules{
		MildConsequenceShifts:   rc.MildConsequenceShifts,
		MildConsequenceHealCost: rc.MildConsequenceHealCost,
		BonusTrackThreshold:     rc.BonusTrackThreshold,
		BonusBoxCapacity:        rc.BonusBoxCapacity,
	}
}

// optionalInt is a flag.Value that records whether it was set.
type optionalInt struct {
	value int
	set   bool
}

func (o *optionalInt) String() string {
	if o == nil || !o.set {
		return ""
	}
	return fmt.Sprint(o.value)
}

func (o *optionalInt) Set(s string) error {
	var v int
	if _, err := fmt.Sscan(s, &v); err != nil {
		return fmt.Errorf("not an integer: %q", s)
	}
	o.value, o.set = v, true
	return nil
}
