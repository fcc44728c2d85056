// Package naming encodes artifact metadata into the flat canonical file-name
// convention and decodes candidate file names back into structured records.
//
// The convention is positional:
//
//	BaseName_[SubName_]TypeName_rNN_vNNN_UserInitials[_Notes...]
//
// A Layout fixes the separator, the presence of the sub-name field and the
// revision and version number formats. Decoding never fails with an error:
// directories hold many unrelated files, so an unusable name comes back as an
// invalid Decoded value that callers skip. Encoding is strict and returns an
// IncompleteRecordError when any required field is missing or malformed.
package naming
