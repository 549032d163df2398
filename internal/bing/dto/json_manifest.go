package dto

import (
	"github.com/handiism/bing-wallpaper/internal/model"
)

// JSONManifest represents the deserialized HPImageArchive response.
type JSONManifest struct {
	Images []JSONImage `json:"images"`
}

// JSONImage is one element of the images array.
type JSONImage struct {
	StartDate     string `json:"startdate"`
	FullStartDate string `json:"fullstartdate"`
	EndDate       string `json:"enddate"`
	URL           string `json:"url"`
	URLBase       string `json:"urlbase"`
	Copyright     string `json:"copyright"`
	CopyrightLink string `json:"copyrightlink"`
	Title         string `json:"title"`
	Hash          string `json:"hsh"`
}

// ToEntry converts JSONImage to a model.Entry at the given manifest offset.
func (ji *JSONImage) ToEntry(offset int) *model.Entry {
	return model.NewEntry(offset, ji.Title, ji.Copyright, ji.CopyrightLink, ji.URL, ji.StartDate, ji.EndDate, ji.Hash)
}

// ToEntries converts every image, offsets following array order.
func (jm *JSONManifest) ToEntries() []*model.Entry {
	entries := make([]*model.Entry, 0, len(jm.Images))
	for i := range jm.Images {
		entries = append(entries, jm.Images[i].ToEntry(i))
	}
	return entries
}
