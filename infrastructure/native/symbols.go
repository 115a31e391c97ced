package native

// C symbol names exported by the Amalgam library.
const (
	symLoadEntity               = "LoadEntity"
	symVerifyEntity             = "VerifyEntity"
	symCloneEntity              = "CloneEntity"
	symStoreEntity              = "StoreEntity"
	symDestroyEntity            = "DestroyEntity"
	symSetRandomSeed            = "SetRandomSeed"
	symGetEntities              = "GetEntities"
	symExecuteEntityJSONPtr     = "ExecuteEntityJsonPtr"
	symGetJSONPtrFromLabel      = "GetJSONPtrFromLabel"
	symSetJSONToLabel           = "SetJSONToLabel"
	symGetVersionString         = "GetVersionString"
	symGetConcurrencyTypeString = "GetConcurrencyTypeString"
	symIsSBFDataStoreEnabled    = "IsSBFDataStoreEnabled"
	symSetSBFDataStoreEnabled   = "SetSBFDataStoreEnabled"
	symGetMaxNumThreads         = "GetMaxNumThreads"
	symSetMaxNumThreads         = "SetMaxNumThreads"
	symDeleteString             = "DeleteString"
)

// loadEntityStatus mirrors the C LoadEntityStatus struct returned by value.
type loadEntityStatus struct {
	Loaded  bool
	Message *byte
	Version *byte
}

// binding ties a symbol to the Go function variable purego fills in.
type binding struct {
	name     string
	fptr     any
	required bool
}

func (l *Library) bindings() []binding {
	return []binding{
		{symLoadEntity, &l.loadEntity, true},
		{symVerifyEntity, &l.verifyEntity, false},
		{symCloneEntity, &l.cloneEntity, false},
		{symStoreEntity, &l.storeEntity, true},
		{symDestroyEntity, &l.destroyEntity, true},
		{symSetRandomSeed, &l.setRandomSeed, false},
		{symGetEntities, &l.getEntities, false},
		{symExecuteEntityJSONPtr, &l.executeEntityJSONPtr, true},
		{symGetJSONPtrFromLabel, &l.getJSONPtrFromLabel, true},
		{symSetJSONToLabel, &l.setJSONToLabel, true},
		{symGetVersionString, &l.getVersionString, true},
		{symGetConcurrencyTypeString, &l.getConcurrencyTypeString, false},
		{symIsSBFDataStoreEnabled, &l.isSBFDataStoreEnabled, false},
		{symSetSBFDataStoreEnabled, &l.setSBFDataStoreEnabled, false},
		{symGetMaxNumThreads, &l.getMaxNumThreads, false},
		{symSetMaxNumThreads, &l.setMaxNumThreads, false},
		{symDeleteString, &l.deleteString, true},
	}
}
