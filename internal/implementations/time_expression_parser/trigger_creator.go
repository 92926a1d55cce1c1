package timeexpressionparser

import (
	"fmt"
	"thursday/internal/core/domain/reminder"
	"time"

	"github.com/golang-module/carbon/v2"
)

const (
	secondsInDay = 24 * 3600
	// Anything further than this is treated as a typo rather than a plan.
	maxRelativeSeconds = 100 * 365 * secondsInDay
)

func createTriggerAt(node node, now time.Time) (time.Time, error) {
	creator := newTriggerCreator(carbon.Time2Carbon(now))
	if err := node.accept(creator); err != nil {
		return time.Time{}, err
	}
	return creator.at.Carbon2Time(), nil
}

type triggerCreator struct {
	now carbon.Carbon
	at  carbon.Carbon
}

func newTriggerCreator(now carbon.Carbon) *triggerCreator {
	return &triggerCreator{now: now, at: now}
}

func (c *triggerCreator) visitIn(in in) error {
	total := in.totalSeconds()
	if total == 0 {
		return fmt.Errorf("relative offset is zero, %w", reminder.ErrTimeExpressionParsing)
	}
	if total > maxRelativeSeconds {
		return fmt.Errorf("relative offset is too large, %w", reminder.ErrTimeExpressionParsing)
	}

	c.at = c.at.
		AddDays(int(in.days)).
		AddHours(int(in.hours)).
		AddMinutes(int(in.minutes)).
		AddSeconds(int(in.seconds))
	return nil
}

func (c *triggerCreator) visitOn(on on) error {
	if err := validateAt(on.at); err != nil {
		return err
	}

	switch on.day {
	case today:
		return on.at.accept(c)
	case tomorrow:
		c.at = c.at.AddDay().SetTimeMicro(int(on.at.hour), int(on.at.minute), 0, 0)
		return nil
	default:
		return fmt.Errorf("on day is invalid, %w", reminder.ErrTimeExpressionParsing)
	}
}

func (c *triggerCreator) visitAt(at at) error {
	if err := validateAt(at); err != nil {
		return err
	}

	c.at = c.at.SetTimeMicro(int(at.hour), int(at.minute), 0, 0)
	if c.at.Lte(c.now) {
		c.at = c.at.AddDay()
	}
	return nil
}

func validateAt(at at) error {
	if at.hour > 23 {
		return fmt.Errorf("invalid at hour, %w", reminder.ErrTimeExpressionParsing)
	}
	if at.minute > 59 {
		return fmt.Errorf("invalid at minute, %w", reminder.ErrTimeExpressionParsing)
	}
	return nil
}
