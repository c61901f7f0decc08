package fsm

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig parses a YAML state graph and populates the Machine
// Validates all references (states, guards, actions, triggers)
// Clears existing graph data before loading
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return errors.Wrap(err, "unmarshal FSM config")
	}
	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}

	m.nodes = make(map[StateID]*Node[T])
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]

	m.AddState(StateRoot, "Root", StateNone)
	nameToID := map[string]StateID{"Root": StateRoot}
	if _, ok := config.States["Root"]; !ok {
		config.States["Root"] = &StateConfig{}
	}

	// Sort keys for deterministic ID generation
	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != "Root" {
			stateNames = append(stateNames, name)
		}
	}
	sort.Strings(stateNames)

	nextID := StateRoot + 1
	for _, name := range stateNames {
		nameToID[name] = nextID
		nextID++
	}

	for _, name := range append([]string{"Root"}, stateNames...) {
		cfg := config.States[name]
		if cfg == nil {
			cfg = &StateConfig{}
		}
		id := nameToID[name]

		node := m.nodes[StateRoot]
		if id != StateRoot {
			pName := cfg.Parent
			if pName == "" {
				pName = "Root"
			}
			parentID, ok := nameToID[pName]
			if !ok {
				return errors.Errorf("state '%s' references unknown parent '%s'", name, pName)
			}
			node = m.AddState(id, name, parentID)
		}

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return errors.Wrapf(err, "state '%s' on_enter", name)
		}
		if node.OnUpdate, err = m.compileActions(cfg.OnUpdate); err != nil {
			return errors.Wrapf(err, "state '%s' on_update", name)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return errors.Wrapf(err, "state '%s' on_exit", name)
		}
		if err := m.compileTransitions(node, cfg.Transitions, nameToID); err != nil {
			return errors.Wrapf(err, "state '%s' transitions", name)
		}
	}

	if err := m.CompilePaths(); err != nil {
		return err
	}

	initialID, ok := nameToID[config.InitialState]
	if !ok || initialID == StateRoot {
		return errors.Errorf("initial state '%s' not found", config.InitialState)
	}
	m.InitialStateID = initialID
	return nil
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, errors.Errorf("unknown action function '%s'", cfg.Action)
		}
		actions = append(actions, Action[T]{Func: fn, Args: cfg.Args})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, nameToID map[string]StateID) error {
	for _, cfg := range configs {
		targetID, ok := nameToID[cfg.Target]
		if !ok {
			return errors.Errorf("transition references unknown target '%s'", cfg.Target)
		}

		trigger := TriggerTick
		if cfg.Trigger != "Tick" {
			t, ok := m.triggerReg[cfg.Trigger]
			if !ok {
				return errors.Errorf("unknown trigger '%s'", cfg.Trigger)
			}
			trigger = t
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			// Check factory first
			if factory, ok := m.guardFactoryReg[cfg.Guard]; ok {
				g, err := factory(m, cfg.GuardArgs)
				if err != nil {
					return errors.Wrapf(err, "guard '%s'", cfg.Guard)
				}
				guard = g
			} else if g, ok := m.guardReg[cfg.Guard]; ok {
				guard = g
			} else {
				return errors.Errorf("unknown guard '%s'", cfg.Guard)
			}
		}

		node.Transitions = append(node.Transitions, Transition[T]{
			TargetID: targetID,
			Trigger:  trigger,
			Guard:    guard,
		})
	}
	return nil
}

// stateTimeExceeds builds a guard true once the leaf has been active for args["ms"]
func stateTimeExceeds[T any](m *Machine[T], args map[string]any) (GuardFunc[T], error) {
	raw, ok := args["ms"]
	if !ok {
		return nil, errors.New("missing 'ms' argument")
	}
	var ms float64
	switch v := raw.(type) {
	case int:
		ms = float64(v)
	case int64:
		ms = float64(v)
	case float64:
		ms = v
	default:
		return nil, errors.Errorf("'ms' must be numeric, got %T", raw)
	}
	limit := time.Duration(ms * float64(time.Millisecond))
	return func(T) bool {
		return m.timeInState >= limit
	}, nil
}
