// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// # Vocabulary

// Vocabulary is the closed set of values a movie may carry in its enumerated
// fields. It is loaded once at startup and passed to [Rules].
type Vocabulary struct {
	AgeRatings []string `json:"ageRatings"`
	Genres     []string `json:"genres"`
	Countries  []string `json:"countries"`
}

// DefaultVocabulary returns the built-in age ratings, genres and countries.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		AgeRatings: []string{"A", "7", "12", "16", "18"},
		Genres: []string{
			"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
			"Documentary", "Drama", "Family", "Fantasy", "Film Noir", "History",
			"Horror", "Music", "Musical", "Mystery", "Romance", "Science Fiction",
			"Short Film", "Sport", "Superhero", "Thriller", "War", "Western",
		},
		Countries: []string{
			"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Argentina", "Armenia",
			"Australia", "Austria", "Azerbaijan", "Bahamas", "Bahrain", "Bangladesh", "Barbados",
			"Belarus", "Belgium", "Belize", "Benin", "Bhutan", "Bolivia", "Bosnia and Herzegovina",
			"Botswana", "Brazil", "Brunei", "Bulgaria", "Burkina Faso", "Burundi", "Cambodia",
			"Cameroon", "Canada", "Cape Verde", "Central African Republic", "Chad", "Chile", "China",
			"Colombia", "Comoros", "Congo", "Costa Rica", "Croatia", "Cuba", "Cyprus", "Czech Republic",
			"Denmark", "Djibouti", "Dominica", "Dominican Republic", "East Timor", "Ecuador", "Egypt",
			"El Salvador", "Equatorial Guinea", "Eritrea", "Estonia", "Ethiopia", "Fiji", "Finland",
			"France", "Gabon", "Gambia", "Georgia", "Germany", "Ghana", "Greece", "Grenada", "Guatemala",
			"Guinea", "Guinea-Bissau", "Guyana", "Haiti", "Honduras", "Hungary", "Iceland", "India",
			"Indonesia", "Iran", "Iraq", "Ireland", "Israel", "Italy", "Ivory Coast", "Jamaica", "Japan",
			"Jordan", "Kazakhstan", "Kenya", "Kiribati", "North Korea", "South Korea", "Kosovo", "Kuwait",
			"Kyrgyzstan", "Laos", "Latvia", "Lebanon", "Lesotho", "Liberia", "Libya", "Liechtenstein",
			"Lithuania", "Luxembourg", "Madagascar", "Malawi", "Malaysia", "Maldives", "Mali", "Malta",
			"Marshall Islands", "Mauritania", "Mauritius", "Mexico", "Micronesia", "Moldova", "Monaco",
			"Mongolia", "Montenegro", "Morocco", "Mozambique", "Myanmar", "Namibia", "Nauru", "Nepal",
			"Netherlands", "New Zealand", "Nicaragua", "Niger", "Nigeria", "North Macedonia", "Norway",
			"Oman", "Pakistan", "Palau", "Palestine", "Panama", "Papua New Guinea", "Paraguay", "Peru",
			"Philippines", "Poland", "Portugal", "Qatar", "Romania", "Russia", "Rwanda", "Saint Kitts and Nevis",
			"Saint Lucia", "Saint Vincent and the Grenadines", "Samoa", "San Marino", "Sao Tome and Principe",
			"Saudi Arabia", "Senegal", "Serbia", "Seychelles", "Sierra Leone", "Singapore", "Slovakia",
			"Slovenia", "Solomon Islands", "Somalia", "South Africa", "South Sudan", "Spain", "Sri Lanka",
			"Sudan", "Suriname", "Sweden", "Switzerland", "Syria", "Taiwan", "Tajikistan", "Tanzania",
			"Thailand", "Togo", "Tonga", "Trinidad and Tobago", "Tunisia", "Turkey", "Turkmenistan",
			"Tuvalu", "Uganda", "Ukraine", "United Arab Emirates", "UK", "USA",
			"Uruguay", "Uzbekistan", "Vanuatu", "Vatican City", "Venezuela", "Vietnam", "Yemen", "Zambia",
			"Zimbabwe",
		},
	}
}

/*
LoadVocabulary reads a vocabulary from a JSON file.

Description: Any list missing from the file falls back to the matching
default list, so a file may override only the countries, for example.
An empty path returns [DefaultVocabulary].

Parameters:
  - path: string (JSON file with "ageRatings", "genres" and "countries" arrays)

Returns:
  - Vocabulary: The merged vocabulary
  - error: Read or decode failures
*/
func LoadVocabulary(path string) (Vocabulary, error) {
	defaults := DefaultVocabulary()
	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("movie: read vocabulary: %w", err)
	}

	var loaded Vocabulary
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return Vocabulary{}, fmt.Errorf("movie: decode vocabulary %s: %w", path, err)
	}

	if len(loaded.AgeRatings) == 0 {
		loaded.AgeRatings = defaults.AgeRatings
	}
	if len(loaded.Genres) == 0 {
		loaded.Genres = defaults.Genres
	}
	if len(loaded.Countries) == 0 {
		loaded.Countries = defaults.Countries
	}

	if err := loaded.check(); err != nil {
		return Vocabulary{}, err
	}
	return loaded, nil
}

func (vocabulary Vocabulary) check() error {
	for name, values := range map[string][]string{
		"ageRatings": vocabulary.AgeRatings,
		"genres":     vocabulary.Genres,
		"countries":  vocabulary.Countries,
	} {
		seen := make(map[string]struct{}, len(values))
		for _, value := range values {
			if value == "" {
				return errors.New("movie: vocabulary " + name + " contains an empty value")
			}
			if _, dup := seen[value]; dup {
				return fmt.Errorf("movie: vocabulary %s lists %q twice", name, value)
			}
			seen[value] = struct{}{}
		}
	}
	return nil
}
