package accident

import (
	"context"
	"fmt"
	"strconv"

	"accident-service/internal/responder"
	"accident-service/internal/user"
)

const topHospitals = 3

func alertMessage(victim, mapURL string, police responder.Contact) string {
	return fmt.Sprintf("EMERGENCY! %s has been in an accident. Location: %s Nearest Police: %s (%s)",
		victim, mapURL, police.Name, police.Phone)
}

func familyVoiceMessage(victim string) string {
	return fmt.Sprintf("Emergency alert! An accident has been detected for your contact %s. "+
		"Please check your messages for the location map.", victim)
}

func responderVoiceMessage(victim string) string {
	return fmt.Sprintf("Emergency alert! An accident involving %s has been reported near you. "+
		"The location map has been sent to this number by text message.", victim)
}

func acceptanceMessage(hospital, phone string) string {
	if phone == "" {
		return fmt.Sprintf("Update: %s is responding.", hospital)
	}
	return fmt.Sprintf("Update: %s is responding. Contact: %s", hospital, phone)
}

// fanOut alerts family, police and the closest hospital. Every recipient gets
// its own attempt; a failed delivery is counted and the loop moves on.
func (s *accidentService) fanOut(ctx context.Context, a *Accident) FanoutSummary {

	var summary FanoutSummary
	id := a.ID.Hex()
	lat, lon := a.Location.Lat, a.Location.Lon

	police := s.directory.NearestPolice(ctx, lat, lon)
	hospitals := s.directory.TopHospitals(ctx, lat, lon, topHospitals)
	mapURL := s.MapLink(a.Location)
	text := alertMessage(a.Name, mapURL, police)

	profile := s.profile(ctx, a.UserID)
	var contacts []user.Contact
	if profile != nil {
		contacts = profile.EmergencyContacts
	}

	familyVoice := familyVoiceMessage(a.Name)
	for i, c := range contacts {
		if c.Phone == "" {
			s.logger.Warnw("Skipping emergency contact without phone", "accident_id", id, "index", i, "name", c.Name)
			summary.Skipped++
			continue
		}
		s.deliver(ctx, &summary, c.Phone, text, familyVoice)
	}

	responderVoice := responderVoiceMessage(a.Name)
	s.deliver(ctx, &summary, police.Phone, text, responderVoice)

	if len(hospitals) > 0 {
		s.deliver(ctx, &summary, hospitals[0].Phone, text, responderVoice)
	} else {
		s.logger.Warnw("No hospital available for alert", "accident_id", id)
	}

	if profile != nil && s.pusher != nil && len(profile.DeviceTokens) > 0 {
		s.pusher.Push(ctx, profile.DeviceTokens, "Emergency alerts sent",
			"Your emergency contacts, police and the nearest hospital have been notified.",
			map[string]string{"accident_id": id, "type": "accident_dispatched", "map_url": mapURL})
	}

	s.logger.Infof("📊 Accident %s: delivered %d/%d alerts (%d contacts skipped), police=%s hospital_candidates=%d",
		id, summary.Delivered, summary.Attempted, summary.Skipped, police.Name, len(hospitals))
	return summary
}

func (s *accidentService) deliver(ctx context.Context, summary *FanoutSummary, phone, text, voice string) {
	summary.Attempted += 2
	if s.notifier.SendText(ctx, phone, text) {
		summary.Delivered++
	}
	if s.notifier.PlaceCall(ctx, phone, voice) {
		summary.Delivered++
	}
}

func (s *accidentService) notifyAcceptance(ctx context.Context, a *Accident) {

	profile := s.profile(ctx, a.UserID)
	if profile == nil {
		return
	}

	msg := acceptanceMessage(a.RespondingHospital, a.HospitalPhone)
	sent := 0
	for i, c := range profile.EmergencyContacts {
		if c.Phone == "" {
			s.logger.Warnw("Skipping emergency contact without phone", "accident_id", a.ID.Hex(), "index", i)
			continue
		}
		if s.notifier.SendText(ctx, c.Phone, msg) {
			sent++
		}
	}
	s.logger.Infof("📊 Accident %s: acceptance update sent to %d/%d contacts", a.ID.Hex(), sent, len(profile.EmergencyContacts))
}

// profile reads the user fresh for every fan-out; a failed read only drops the
// family part of the alert.
func (s *accidentService) profile(ctx context.Context, userID string) *user.UserProfile {
	profile, err := s.userService.FindProfile(ctx, userID)
	if err != nil {
		s.logger.Errorw("❌ Could not load emergency contacts", "user_id", userID, "error", err)
		return nil
	}
	if profile == nil {
		s.logger.Warnw("User has no profile, alerting responders only", "user_id", userID)
	}
	return profile
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
